package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/model"
	"spark-journal-be/pkg/spark"
)

type SparkMapper struct{}

func NewSparkMapper() *SparkMapper {
	return &SparkMapper{}
}

func (m *SparkMapper) NudgeToEntity(n *model.SparkNudge) *entity.SparkNudge {
	if n == nil {
		return nil
	}
	return &entity.SparkNudge{
		Id:                    n.Id,
		UserId:                n.UserId,
		EntryId:               n.EntryId,
		RunId:                 n.RunId,
		ParagraphIndex:        n.ParagraphIndex,
		ContentHash:           n.ContentHash,
		Type:                  spark.NudgeType(n.Type),
		Hook:                  n.Hook,
		WhyNow:                n.WhyNow,
		ActionPrompt:          n.ActionPrompt,
		EvidenceMemoryId:      n.EvidenceMemoryId,
		EvidenceMemoryDate:    n.EvidenceMemoryDate,
		EvidenceMemorySnippet: n.EvidenceMemorySnippet,
		ModelConfidence:       n.ModelConfidence,
		RetrievalStrength:     n.RetrievalStrength,
		TensionScore:          n.TensionScore,
		ActionabilityScore:    n.ActionabilityScore,
		NoveltyScore:          n.NoveltyScore,
		SpecificityScore:      n.SpecificityScore,
		OverallUtility:        n.OverallUtility,
		RankScore:             n.RankScore,
		CreatedAt:             n.CreatedAt,
	}
}

func (m *SparkMapper) NudgeToModel(n *entity.SparkNudge) *model.SparkNudge {
	if n == nil {
		return nil
	}
	return &model.SparkNudge{
		Id:                    n.Id,
		UserId:                n.UserId,
		EntryId:               n.EntryId,
		RunId:                 n.RunId,
		ParagraphIndex:        n.ParagraphIndex,
		ContentHash:           n.ContentHash,
		Type:                  string(n.Type),
		Hook:                  n.Hook,
		WhyNow:                n.WhyNow,
		ActionPrompt:          n.ActionPrompt,
		EvidenceMemoryId:      n.EvidenceMemoryId,
		EvidenceMemoryDate:    n.EvidenceMemoryDate,
		EvidenceMemorySnippet: n.EvidenceMemorySnippet,
		ModelConfidence:       n.ModelConfidence,
		RetrievalStrength:     n.RetrievalStrength,
		TensionScore:          n.TensionScore,
		ActionabilityScore:    n.ActionabilityScore,
		NoveltyScore:          n.NoveltyScore,
		SpecificityScore:      n.SpecificityScore,
		OverallUtility:        n.OverallUtility,
		RankScore:             n.RankScore,
		CreatedAt:             n.CreatedAt,
	}
}

func (m *SparkMapper) NudgesToEntities(nudges []*model.SparkNudge) []*entity.SparkNudge {
	entities := make([]*entity.SparkNudge, len(nudges))
	for i, n := range nudges {
		entities[i] = m.NudgeToEntity(n)
	}
	return entities
}

func (m *SparkMapper) FeedbackToEntity(f *model.SparkFeedback) *entity.SparkFeedback {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.SparkFeedback{
		Id:        f.Id,
		NudgeId:   f.NudgeId,
		UserId:    f.UserId,
		NudgeType: spark.NudgeType(f.NudgeType),
		Value:     entity.FeedbackValue(f.Value),
		Reason:    f.Reason,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SparkMapper) FeedbackToModel(f *entity.SparkFeedback) *model.SparkFeedback {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.SparkFeedback{
		Id:        f.Id,
		NudgeId:   f.NudgeId,
		UserId:    f.UserId,
		NudgeType: string(f.NudgeType),
		Value:     string(f.Value),
		Reason:    f.Reason,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SparkMapper) FeedbacksToEntities(rows []*model.SparkFeedback) []*entity.SparkFeedback {
	entities := make([]*entity.SparkFeedback, len(rows))
	for i, f := range rows {
		entities[i] = m.FeedbackToEntity(f)
	}
	return entities
}

func (m *SparkMapper) RunToEntity(r *model.SparkRun) *entity.SparkRun {
	if r == nil {
		return nil
	}

	var timings map[string]int64
	if len(r.StageTimings) > 0 {
		_ = json.Unmarshal(r.StageTimings, &timings)
	}
	var rejections map[string]int
	if len(r.Rejections) > 0 {
		_ = json.Unmarshal(r.Rejections, &rejections)
	}

	return &entity.SparkRun{
		Id:              r.Id,
		UserId:          r.UserId,
		EntryId:         r.EntryId,
		ParagraphIndex:  r.ParagraphIndex,
		ContentHash:     r.ContentHash,
		FailureMode:     spark.FailureMode(r.FailureMode),
		AcceptedCount:   r.AcceptedCount,
		TotalCandidates: r.TotalCandidates,
		TopScore:        r.TopScore,
		SecondScore:     r.SecondScore,
		StageTimings:    timings,
		Rejections:      rejections,
		CreatedAt:       r.CreatedAt,
	}
}

func (m *SparkMapper) RunToModel(r *entity.SparkRun) *model.SparkRun {
	if r == nil {
		return nil
	}

	timings, _ := json.Marshal(r.StageTimings)
	rejections, _ := json.Marshal(r.Rejections)

	return &model.SparkRun{
		Id:              r.Id,
		UserId:          r.UserId,
		EntryId:         r.EntryId,
		ParagraphIndex:  r.ParagraphIndex,
		ContentHash:     r.ContentHash,
		FailureMode:     string(r.FailureMode),
		AcceptedCount:   r.AcceptedCount,
		TotalCandidates: r.TotalCandidates,
		TopScore:        r.TopScore,
		SecondScore:     r.SecondScore,
		StageTimings:    datatypes.JSON(timings),
		Rejections:      datatypes.JSON(rejections),
		CreatedAt:       r.CreatedAt,
	}
}

func (m *SparkMapper) RunsToEntities(rows []*model.SparkRun) []*entity.SparkRun {
	entities := make([]*entity.SparkRun, len(rows))
	for i, r := range rows {
		entities[i] = m.RunToEntity(r)
	}
	return entities
}

package dto

import (
	"testing"

	"spark-journal-be/internal/pkg/serverutils"
)

func TestSparkFeedbackRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     SparkFeedbackRequest
		wantErr bool
	}{
		{
			name:    "up without reason passes",
			req:     SparkFeedbackRequest{Value: "up"},
			wantErr: false,
		},
		{
			name:    "down with reason passes",
			req:     SparkFeedbackRequest{Value: "down", Reason: "not_relevant"},
			wantErr: false,
		},
		{
			name:    "down without reason rejected",
			req:     SparkFeedbackRequest{Value: "down"},
			wantErr: true,
		},
		{
			name:    "unknown reason rejected",
			req:     SparkFeedbackRequest{Value: "down", Reason: "hated_it"},
			wantErr: true,
		},
		{
			name:    "unknown value rejected",
			req:     SparkFeedbackRequest{Value: "sideways", Reason: "not_relevant"},
			wantErr: true,
		},
		{
			name:    "missing value rejected",
			req:     SparkFeedbackRequest{Reason: "bad_timing"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := serverutils.ValidateRequest(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package serverutils

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Value    string `validate:"omitempty,oneof=up down"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		wantErr string
	}{
		{
			name: "valid request passes",
			req:  sampleRequest{Email: "a@b.com", Password: "longenough", Value: "up"},
		},
		{
			name:    "missing required field",
			req:     sampleRequest{Password: "longenough"},
			wantErr: "Email is required",
		},
		{
			name:    "bad email format",
			req:     sampleRequest{Email: "not-an-email", Password: "longenough"},
			wantErr: "Email must be a valid email",
		},
		{
			name:    "too short",
			req:     sampleRequest{Email: "a@b.com", Password: "short"},
			wantErr: "Password must be at least 8",
		},
		{
			name:    "oneof violation",
			req:     sampleRequest{Email: "a@b.com", Password: "longenough", Value: "sideways"},
			wantErr: "Value must be one of: up down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateRequestJoinsMultipleFailures(t *testing.T) {
	err := ValidateRequest(sampleRequest{})
	if err == nil {
		t.Fatal("expected error for empty request")
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("expected joined messages, got %q", err.Error())
	}
}

package txload_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fraudlab/txload/pkg/txload"
)

func TestLoadConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    txload.LoadConfig
		wantError bool
		errorType error
	}{
		{
			name: "valid default datasets",
			config: txload.LoadConfig{
				Datasets:         txload.DefaultDatasets(),
				ConnectionString: "postgresql://localhost:5432/fraud_detection",
			},
		},
		{
			name: "no datasets",
			config: txload.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/fraud_detection",
			},
			wantError: true,
			errorType: txload.ErrInvalidConfig,
		},
		{
			name: "missing connection string",
			config: txload.LoadConfig{
				Datasets: txload.DefaultDatasets(),
			},
			wantError: true,
			errorType: txload.ErrInvalidConfig,
		},
		{
			name: "dataset without table",
			config: txload.LoadConfig{
				Datasets:         []txload.Dataset{{Name: "train", Path: "a.csv"}},
				ConnectionString: "postgresql://localhost/db",
			},
			wantError: true,
			errorType: txload.ErrInvalidConfig,
		},
		{
			name: "two datasets writing the same table",
			config: txload.LoadConfig{
				Datasets: []txload.Dataset{
					{Name: "train", Path: "a.csv", Table: "t"},
					{Name: "test", Path: "b.csv", Table: "t"},
				},
				ConnectionString: "postgresql://localhost/db",
			},
			wantError: true,
			errorType: txload.ErrInvalidConfig,
		},
		{
			name: "negative timeout",
			config: txload.LoadConfig{
				Datasets:         txload.DefaultDatasets(),
				ConnectionString: "postgresql://localhost/db",
				Timeout:          -time.Second,
			},
			wantError: true,
			errorType: txload.ErrInvalidConfig,
		},
		{
			name: "unknown auth method",
			config: txload.LoadConfig{
				Datasets:         txload.DefaultDatasets(),
				ConnectionString: "postgresql://localhost/db",
				AuthMethod:       txload.AuthMethod(42),
			},
			wantError: true,
			errorType: txload.ErrUnsupportedAuthMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error wrapping %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultDatasets(t *testing.T) {
	ds := txload.DefaultDatasets()
	if len(ds) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(ds))
	}
	if ds[0].Name != "train" || ds[0].Table != txload.DefaultTrainTable || ds[0].Path != txload.DefaultTrainPath {
		t.Errorf("unexpected train dataset: %+v", ds[0])
	}
	if ds[1].Name != "test" || ds[1].Table != txload.DefaultTestTable || ds[1].Path != txload.DefaultTestPath {
		t.Errorf("unexpected test dataset: %+v", ds[1])
	}

	// Each dataset owns its slice
	ds[0].DateColumns[0] = "changed"
	if ds[1].DateColumns[0] != txload.ColumnTransactionTime {
		t.Error("date column slices must not be shared between datasets")
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method txload.AuthMethod
		want   string
	}{
		{txload.AuthMethodStandard, "Standard"},
		{txload.AuthMethodAWSIAM, "AWS IAM"},
		{txload.AuthMethodGoogleIAM, "Google IAM"},
		{txload.AuthMethodAzureEntraID, "Azure Entra ID"},
		{txload.AuthMethod(99), "Unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestResult_TotalRows(t *testing.T) {
	r := &txload.Result{Tables: []txload.TableResult{{Rows: 2}, {Rows: 5}}}
	if got := r.TotalRows(); got != 7 {
		t.Errorf("TotalRows() = %d, want 7", got)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fraudlab/txload/pkg/txload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AllFields(t *testing.T) {
	path := writeConfig(t, `connection:
  host: myhost
  port: 5433
  username: loader
  database: fraud
  sslmode: require
  auth_method: aws
  aws_region: eu-west-1

datasets:
  train:
    path: /data/train.csv
    table: analytics.train_tx
    date_columns: [trans_date_trans_time]
  test:
    path: /data/test.csv

delimiter: ";"
timeout: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "myhost", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "loader", cfg.Connection.Username)
	assert.Equal(t, "fraud", cfg.Connection.Database)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "aws", cfg.Connection.AuthMethod)
	assert.Equal(t, "eu-west-1", cfg.Connection.AWSRegion)
	assert.Equal(t, "/data/train.csv", cfg.Datasets.Train.Path)
	assert.Equal(t, "analytics.train_tx", cfg.Datasets.Train.Table)
	assert.Equal(t, []string{"trans_date_trans_time"}, cfg.Datasets.Train.DateColumns)
	assert.Equal(t, "/data/test.csv", cfg.Datasets.Test.Path)
	assert.Equal(t, ";", cfg.Delimiter)
	assert.Equal(t, "10m", cfg.Timeout)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{{invalid"))
	assert.ErrorIs(t, err, txload.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestApplyDatasets(t *testing.T) {
	cfg := &ProjectConfig{Datasets: DatasetsConfig{
		Train: DatasetConfig{Table: "staging.train"},
		Test:  DatasetConfig{Path: "other/test.csv", DateColumns: []string{"dob"}},
	}}

	ds := cfg.ApplyDatasets(txload.DefaultDatasets())

	require.Len(t, ds, 2)
	assert.Equal(t, txload.DefaultTrainPath, ds[0].Path)
	assert.Equal(t, "staging.train", ds[0].Table)
	assert.Equal(t, txload.DefaultDateColumns(), ds[0].DateColumns)
	assert.Equal(t, "other/test.csv", ds[1].Path)
	assert.Equal(t, txload.DefaultTestTable, ds[1].Table)
	assert.Equal(t, []string{"dob"}, ds[1].DateColumns)
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		timeout string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"45s", 45 * time.Second, false},
		{"1h30m", 90 * time.Minute, false},
		{"forever", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			got, err := (&ProjectConfig{Timeout: tt.timeout}).TimeoutDuration()
			if tt.wantErr {
				assert.ErrorIs(t, err, txload.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{"|", '|', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"\t", '\t', false},
		{"§", '§', false},
		{";;", 0, true},
		{`"`, 0, true},
		{"\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, txload.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package services_test

import (
	"context"
	"testing"

	"github.com/fraudlab/txload/internal/db"
	"github.com/fraudlab/txload/internal/db/replacer"
	"github.com/fraudlab/txload/internal/logging"
	"github.com/fraudlab/txload/internal/services"
	testhelpers "github.com/fraudlab/txload/internal/testing"
	"github.com/fraudlab/txload/pkg/txload"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	integrationTrain = "trans_date_trans_time,cc_num,merchant,amt,dob,is_fraud\n" +
		"2019-01-01 00:00:18,2703186189652095,fraud_Rippin and Sons,4.97,1988-03-09,0\n" +
		"2019-01-01 00:00:44,630423337322,fraud_Heller and Gutmann,107.23,1978-06-21,0\n" +
		"2019-01-01 00:00:51,38859492057661,fraud_Lind-Buckridge,220.11,1962-01-19,1\n"

	integrationTest = "trans_date_trans_time,cc_num,merchant,amt,dob,is_fraud\n" +
		"2020-06-21 12:14:25,2291163933867244,fraud_Kirlin and Sons,2.86,1968-03-19,0\n" +
		"2020-06-21 12:14:33,3573030041201292,fraud_Sporer-Keebler,29.84,1990-01-17,0\n"
)

func snapshot(t *testing.T, conn *pgx.Conn, table string) string {
	t.Helper()
	ident, err := replacer.ParseTableName(table)
	require.NoError(t, err)

	var digest string
	err = conn.QueryRow(context.Background(),
		"SELECT md5(string_agg(r::text, '|' ORDER BY r::text)) FROM "+ident.Sanitize()+" r").Scan(&digest)
	require.NoError(t, err)
	return digest
}

func TestLoad_Integration_Idempotent(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	conn := testhelpers.Connect(t, connString)
	schema := testhelpers.CreateTestSchema(t, conn)

	datasets := txload.DefaultDatasets()
	datasets[0].Path = testhelpers.WriteFile(t, "fraudTrain.csv", integrationTrain)
	datasets[0].Table = schema + ".train_transactions"
	datasets[1].Path = testhelpers.WriteFile(t, "fraudTest.csv", integrationTest)
	datasets[1].Table = schema + ".test_transactions"

	cfg := txload.LoadConfig{Datasets: datasets, ConnectionString: connString}
	svc := services.NewLoadService(db.NewConnector, replacer.New(), logging.NewNullLogger())

	first, err := svc.Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.TotalRows())
	trainAfterFirst := snapshot(t, conn, datasets[0].Table)
	testAfterFirst := snapshot(t, conn, datasets[1].Table)

	second, err := svc.Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)

	assert.Equal(t, trainAfterFirst, snapshot(t, conn, datasets[0].Table))
	assert.Equal(t, testAfterFirst, snapshot(t, conn, datasets[1].Table))

	var trainRows, testRows int
	require.NoError(t, conn.QueryRow(context.Background(), "SELECT count(*) FROM "+pgx.Identifier{schema, "train_transactions"}.Sanitize()).Scan(&trainRows))
	require.NoError(t, conn.QueryRow(context.Background(), "SELECT count(*) FROM "+pgx.Identifier{schema, "test_transactions"}.Sanitize()).Scan(&testRows))
	assert.Equal(t, 3, trainRows)
	assert.Equal(t, 2, testRows)
}

func TestLoad_Integration_BadDateLeavesTablesUntouched(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	conn := testhelpers.Connect(t, connString)
	schema := testhelpers.CreateTestSchema(t, conn)

	datasets := txload.DefaultDatasets()
	datasets[0].Path = testhelpers.WriteFile(t, "fraudTrain.csv", integrationTrain)
	datasets[0].Table = schema + ".train_transactions"
	datasets[1].Path = testhelpers.WriteFile(t, "fraudTest.csv",
		"trans_date_trans_time,dob\n2020-06-21 12:14:25,sometime\n")
	datasets[1].Table = schema + ".test_transactions"

	svc := services.NewLoadService(db.NewConnector, replacer.New(), logging.NewNullLogger())
	_, err := svc.Load(context.Background(), txload.LoadConfig{Datasets: datasets, ConnectionString: connString})
	require.ErrorIs(t, err, txload.ErrDateParse)

	var tables int
	require.NoError(t, conn.QueryRow(context.Background(),
		"SELECT count(*) FROM information_schema.tables WHERE table_schema = $1", schema).Scan(&tables))
	assert.Zero(t, tables, "train must not be written when test fails to parse")
}

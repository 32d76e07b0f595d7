package adapter

import (
	"context"
	"math"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/secom/internal/testutil"
	"github.com/leapstack-labs/secom/pkg/table"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NewIntColumn("s_label_target", []int64{1, 0}),
		table.NewFloatColumn("s_data_0", []float64{1.5, math.NaN()}),
	)
	require.NoError(t, err)
	return tbl
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB"},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
			assert.Equal(t, tt.setupDB, base.IsConnected())
		})
	}
}

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	base := &BaseSQLAdapter{}

	err := base.Exec(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")

	_, err = base.Query(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")

	err = base.WriteTable(ctx, "merged", sampleTable(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		errMsg    string
	}{
		{
			name: "exec success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE runs").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql: "CREATE TABLE runs (id VARCHAR)",
		},
		{
			name: "exec with error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:    "INVALID SQL",
			errMsg: "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			base := &BaseSQLAdapter{DB: db}
			err = base.Exec(context.Background(), tt.sql)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"target", "n", "mean"}).
		AddRow(int64(0), int64(3), 1.5).
		AddRow(int64(1), int64(1), nil)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	base := &BaseSQLAdapter{DB: db}
	got, err := base.Query(context.Background(), "SELECT target, count(*) AS n, avg(x) AS mean FROM merged GROUP BY 1")
	require.NoError(t, err)

	assert.Equal(t, []string{"target", "n", "mean"}, got.Columns())
	assert.Equal(t, 2, got.NumRows())
	mean, _ := got.Column("mean")
	assert.Equal(t, table.Float, mean.Kind())
	assert.Nil(t, mean.Value(1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)

	base := &BaseSQLAdapter{DB: db}
	got, err := base.Query(context.Background(), "INVALID SQL")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "failed to execute query")
}

func TestBaseSQLAdapter_WriteTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "merged"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "merged" ("s_label_target" BIGINT, "s_data_0" DOUBLE)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "merged" ("s_label_target", "s_data_0") VALUES (?, ?)`))
	prep.ExpectExec().WithArgs(int64(1), 1.5).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(int64(0), nil).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	base := &BaseSQLAdapter{DB: db, Logger: testutil.NewTestLogger(t)}
	require.NoError(t, base.WriteTable(context.Background(), "merged", sampleTable(t)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_WriteTableRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	base := &BaseSQLAdapter{DB: db}
	err = base.WriteTable(context.Background(), "merged", sampleTable(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create table merged")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"json_vendor_Acme_Corp"`, QuoteIdent("json_vendor_Acme_Corp"))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
}

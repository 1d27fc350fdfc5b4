package interns

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/datex"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "full_name", "email", "domain", "start_date", "end_date",
	"certificate_id", "created_by", "status", "created_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func date(t *testing.T, s string) datex.CalendarDate {
	t.Helper()
	d, err := datex.ParseDate(s)
	require.NoError(t, err)
	return d
}

func sampleIntern(t *testing.T) *models.Intern {
	return &models.Intern{
		ID:            "3f1c1d1e-0000-4000-8000-000000000001",
		FullName:      "Ada Lovelace",
		Email:         "ada@example.com",
		Domain:        "Engineering",
		StartDate:     date(t, "2024-01-15"),
		EndDate:       date(t, "2024-04-15"),
		CertificateID: "CERT-1705276800000-ABC123XYZ",
		CreatedBy:     "owner-1",
		Status:        models.StatusActive,
		CreatedAt:     time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func addInternRow(rows *sqlmock.Rows, i *models.Intern) *sqlmock.Rows {
	return rows.AddRow(i.ID, i.FullName, i.Email, i.Domain, i.StartDate.Time(), i.EndDate.Time(),
		i.CertificateID, i.CreatedBy, i.Status, i.CreatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	i := sampleIntern(t)

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+interns\s*\(id,\s*full_name,.*created_at\)\s*VALUES\s*\(\$1,.*\$10\)\s*$`).
		WithArgs(i.ID, i.FullName, i.Email, i.Domain, "2024-01-15", "2024-04-15",
			i.CertificateID, i.CreatedBy, i.Status, i.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), i))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateCertificateID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+interns`).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), sampleIntern(t))
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	want := sampleIntern(t)

	mock.ExpectQuery(`(?s)SELECT\s+id,\s*full_name.*FROM\s+interns\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(want.ID).
		WillReturnRows(addInternRow(sqlmock.NewRows(columns), want))

	got, err := repo.GetByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+interns\s+WHERE\s+id`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_AllFilters(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	i := sampleIntern(t)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM interns WHERE created_by = \$1 AND domain = \$2 AND \(full_name ILIKE \$3 OR email ILIKE \$3\)$`).
		WithArgs("owner-1", "Engineering", `%ada\_l%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(11)))

	mock.ExpectQuery(`(?s)^SELECT id,.*FROM interns WHERE created_by = \$1 AND domain = \$2 AND \(full_name ILIKE \$3 OR email ILIKE \$3\) ORDER BY created_at DESC, id LIMIT \$4 OFFSET \$5$`).
		WithArgs("owner-1", "Engineering", `%ada\_l%`, 10, 10).
		WillReturnRows(addInternRow(sqlmock.NewRows(columns), i))

	got, total, err := repo.List(context.Background(), "owner-1", models.InternFilter{
		Domain: "Engineering", Search: "ada_l", Limit: 10, Offset: 10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 11, total)
	require.Len(t, got, 1)
	assert.Equal(t, i, got[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NoFilters(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM interns WHERE created_by = \$1$`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`ORDER BY created_at DESC, id$`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(columns))

	got, total, err := repo.List(context.Background(), "owner-1", models.InternFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_CountError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(&pgconn.PgError{Code: "08006"})

	_, _, err := repo.List(context.Background(), "owner-1", models.InternFilter{})
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestDomains(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT\s+DISTINCT\s+domain\s+FROM\s+interns\s+WHERE\s+created_by\s*=\s*\$1\s+ORDER\s+BY\s+domain`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"domain"}).AddRow("Design").AddRow("Engineering"))

	got, err := repo.Domains(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Design", "Engineering"}, got)
}

func TestDomains_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+DISTINCT`).WillReturnError(errors.New("db err"))

	_, err := repo.Domains(context.Background(), "owner-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestStats(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT\s+COUNT\(\*\),.*FILTER.*'completed'.*'active'.*SUM\(v\.verification_count\).*LEFT\s+JOIN\s+verifications.*WHERE\s+i\.created_by\s*=\s*\$1`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed", "active", "verifications"}).
			AddRow(int64(5), int64(2), int64(3), int64(17)))

	got, err := repo.Stats(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{TotalInterns: 5, GeneratedCertificates: 2, ActiveInternships: 3, Verifications: 17}, got)
}

func TestStats_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`LEFT\s+JOIN\s+verifications`).WillReturnError(errors.New("db err"))

	_, err := repo.Stats(context.Background(), "owner-1")
	require.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\o/`, escapeLike(`50% off_now \o/`))
}

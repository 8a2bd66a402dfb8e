package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blmfeed/internal/model"
)

func TestRawRepositorySaveInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &RawRepository{DB: db}
	row := model.RawRow{
		ID:         "5f0c6a1e-6a47-4d6b-9a57-1f5d2f3b9a10",
		AgentRef:   "A1",
		Source:     "feed.blm",
		Attributes: map[string]string{"agentRef": "A1"},
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM feed_raw_rows WHERE agent_ref = $1)")).
		WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO feed_raw_rows").
		WithArgs(row.ID, "A1", "feed.blm", `{"agentRef":"A1"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(row))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRawRepositorySaveUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &RawRepository{DB: db}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE feed_raw_rows").
		WithArgs("feed.blm", `{}`, "A1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(model.RawRow{AgentRef: "A1", Source: "feed.blm", Attributes: map[string]string{}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRawRepositoryListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &RawRepository{DB: db}

	mock.ExpectQuery("SELECT id, agent_ref, source, attributes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "agent_ref", "source", "attributes"}).
			AddRow("id-1", "A1", "feed.blm", []byte(`{"agentRef":"A1","feature1":"Garden"}`)).
			AddRow("id-2", "A2", "feed.blm", []byte(`{}`)))

	rows, err := repo.ListPending()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Garden", rows[0].Attributes["feature1"])
	assert.Equal(t, "A2", rows[1].AgentRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRawRepositoryMarkAsProcessed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE feed_raw_rows").
		WithArgs("A1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, (&RawRepository{DB: db}).MarkAsProcessed("A1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/FireKid846/TG-bot/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestConfigRepo_Load(t *testing.T) {
	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expected      string
		expectedErrIs error
		expectedError bool
	}{
		{
			name:     "document stored",
			mockRows: sqlmock.NewRows([]string{"document"}).AddRow([]byte(`{"cooldown":2}`)),
			expected: `{"cooldown":2}`,
		},
		{
			name:          "no document yet",
			mockError:     sql.ErrNoRows,
			expectedErrIs: repository.ErrNotFound,
			expectedError: true,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("connection reset"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewConfigRepo(db)

			query := "SELECT document FROM bot_config WHERE id = 1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WillReturnRows(tt.mockRows)
			}

			data, err := repo.Load(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
				if tt.expectedErrIs != nil {
					assert.ErrorIs(t, err, tt.expectedErrIs)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, string(data))
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConfigRepo_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewConfigRepo(db)

	document := `{"cooldown":5}`

	mock.ExpectExec("INSERT INTO bot_config").
		WithArgs(document).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Save(context.Background(), []byte(document))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepo_SaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewConfigRepo(db)

	mock.ExpectExec("INSERT INTO bot_config").
		WithArgs("{}").
		WillReturnError(fmt.Errorf("disk full"))

	err = repo.Save(context.Background(), []byte("{}"))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

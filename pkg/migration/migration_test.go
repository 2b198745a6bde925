package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-shop/pkg/database"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

func newRunner(t *testing.T, group string) (*Runner, *gorm.DB, *bytes.Buffer) {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	out := &bytes.Buffer{}
	r := New(db, group)
	r.Out = out
	return r, db, out
}

func TestRunAndRollback(t *testing.T) {
	Register("widgets-test", "20240101000000_create_widgets", createWidgets{})
	r, db, out := newRunner(t, "widgets-test")

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&widget{}))
	assert.Contains(t, out.String(), "20240101000000_create_widgets")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&widget{}))

	out.Reset()
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Pending")
}

func TestRunEmptyGroup(t *testing.T) {
	r, _, _ := newRunner(t, "nothing-here")
	assert.ErrorIs(t, r.Run(), ErrNoMigrations)
}

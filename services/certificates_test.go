package services

import (
	"errors"
	"strings"
	"testing"

	"trainhub/config"
	"trainhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryStore struct {
	files map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: map[string][]byte{}}
}

func (s *memoryStore) Save(ref string, data []byte) error {
	s.files[ref] = data
	return nil
}

type failingRenderer struct{}

func (failingRenderer) Render(models.User, models.Module) ([]byte, error) {
	return nil, errors.New("template engine down")
}

func testCertManager(t *testing.T, db *gorm.DB) *CertificateManager {
	t.Helper()
	cfg := &config.Config{
		StorageBaseURL: "http://files.test",
		StorageSecret:  "test-secret",
	}
	return NewCertificateManager(db, cfg, HTMLRenderer{}, newMemoryStore())
}

func TestIssueCertificate(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, _ := createModuleWithLessons(t, db, "Safety", 1, 60)
	cm := testCertManager(t, db)

	certificate, err := cm.Issue(user.ID, module.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, certificate.Serial)
	assert.True(t, strings.HasPrefix(certificate.FileURL, "certificates/"))

	current, err := cm.Current(user.ID, module.ID)
	require.NoError(t, err)
	assert.Equal(t, certificate.ID, current.ID)
}

func TestRegenerateAppendsHistory(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, _ := createModuleWithLessons(t, db, "Safety", 1, 60)
	cm := testCertManager(t, db)

	first, err := cm.Issue(user.ID, module.ID)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := cm.Regenerate(user.ID, module.ID, true)
		require.NoError(t, err)

		history, err := cm.History(user.ID, module.ID)
		require.NoError(t, err)
		assert.Len(t, history, i+1)
	}

	// The first certificate is untouched history.
	var reloaded models.Certificate
	require.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.Equal(t, first.FileURL, reloaded.FileURL)
	assert.Equal(t, first.Serial, reloaded.Serial)

	// Pointer follows the latest row.
	history, err := cm.History(user.ID, module.ID)
	require.NoError(t, err)
	current, err := cm.Current(user.ID, module.ID)
	require.NoError(t, err)
	assert.Equal(t, history[0].ID, current.ID)
}

func TestRegenerateWithoutForceReturnsCurrent(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, _ := createModuleWithLessons(t, db, "Safety", 1, 60)
	cm := testCertManager(t, db)

	first, err := cm.Issue(user.ID, module.ID)
	require.NoError(t, err)

	again, err := cm.Regenerate(user.ID, module.ID, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	history, err := cm.History(user.ID, module.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRegenerateWithoutForceIssuesWhenMissing(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, _ := createModuleWithLessons(t, db, "Safety", 1, 60)
	cm := testCertManager(t, db)

	certificate, err := cm.Regenerate(user.ID, module.ID, false)
	require.NoError(t, err)
	assert.NotZero(t, certificate.ID)
}

func TestGenerationFailureMutatesNothing(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, _ := createModuleWithLessons(t, db, "Safety", 1, 60)

	cfg := &config.Config{StorageBaseURL: "http://files.test", StorageSecret: "s"}
	cm := NewCertificateManager(db, cfg, failingRenderer{}, newMemoryStore())

	_, err := cm.Issue(user.ID, module.ID)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	var certificates int64
	db.Model(&models.Certificate{}).Count(&certificates)
	assert.Zero(t, certificates)

	var pointers int64
	db.Model(&models.CertificatePointer{}).Count(&pointers)
	assert.Zero(t, pointers)
}

func TestIssueUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	module, _ := createModuleWithLessons(t, db, "Safety", 1, 60)
	cm := testCertManager(t, db)

	_, err := cm.Issue(999, module.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCurrentURLIsSigned(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, _ := createModuleWithLessons(t, db, "Safety", 1, 60)
	cm := testCertManager(t, db)

	certificate, err := cm.Issue(user.ID, module.ID)
	require.NoError(t, err)

	url, err := cm.CurrentURL(certificate.ID)
	require.NoError(t, err)
	assert.Contains(t, url, certificate.FileURL)
	assert.Contains(t, url, "expires=")
	assert.Contains(t, url, "sig=")

	_, err = cm.CurrentURL(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

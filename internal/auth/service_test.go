package auth

import (
	"testing"

	"landtoken-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	u := &models.User{
		Fullname:     "Asha Verma",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestLoginUser_Success(t *testing.T) {
	db := setupAuthTest(t)
	seeded := seedUser(t, db, "asha@example.com", "s3cret!", "reviewer")

	u, err := LoginUser(db, LoginInput{Email: "asha@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, seeded.UserID, u.UserID)
	assert.Equal(t, "reviewer", u.Role)
}

func TestLoginUser_EmptyFields(t *testing.T) {
	db := setupAuthTest(t)

	_, err := LoginUser(db, LoginInput{Email: "", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)

	_, err = LoginUser(db, LoginInput{Email: "a@b.c", Password: ""})
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	db := setupAuthTest(t)

	_, err := LoginUser(db, LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	db := setupAuthTest(t)
	seedUser(t, db, "asha@example.com", "s3cret!", "viewer")

	_, err := LoginUser(db, LoginInput{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestGormUserFinder(t *testing.T) {
	db := setupAuthTest(t)
	seedUser(t, db, "asha@example.com", "s3cret!", "viewer")

	finder := &GormUserFinder{DB: db}
	u, err := finder.FindByEmailAndPassword("asha@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
}

func TestVerifyUser(t *testing.T) {
	shape, err := VerifyUser(map[string]interface{}{
		"user_id":  "abc-123",
		"fullname": "Asha Verma",
		"email":    "asha@example.com",
		"role":     "reviewer",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc-123", shape.UserID)
	assert.Equal(t, "reviewer", shape.Role)

	_, err = VerifyUser(nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = VerifyUser("not a map")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = VerifyUser(map[string]interface{}{"fullname": "no id"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

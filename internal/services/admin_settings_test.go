package services

import (
	"context"
	"testing"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminSettingsLifecycle(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	def, err := e.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Admin User", def.FullName)
	assert.Equal(t, "My Personal Blog", def.BlogTitle)
	joined := def.JoinDate

	again, err := e.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, joined, again.JoinDate)

	_, err = e.settings.Update(ctx, alice, models.AdminSettingsInput{FirstName: "A", LastName: "B", Email: "a@b.io"})
	requireKind(t, err, apperr.KindForbidden)

	_, err = e.settings.Update(ctx, root, models.AdminSettingsInput{FirstName: "Jane", Email: "jane@example.com"})
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "First name, last name, and email are required", apperr.PublicMessage(err))

	_, err = e.settings.Update(ctx, root, models.AdminSettingsInput{FirstName: "Jane", LastName: "Doe", Email: "not-an-email"})
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Please provide a valid email address", apperr.PublicMessage(err))

	upd, err := e.settings.Update(ctx, root, models.AdminSettingsInput{
		FirstName: " Jane ",
		LastName:  "Doe",
		Email:     "Jane.Doe@Example.com",
		BlogTitle: sp("  "),
		Skills:    &[]string{"Go", " ", "Writing"},
		SocialMedia: &models.SocialMedia{
			Github: " janedoe ",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", upd.FullName)
	assert.Equal(t, "jane.doe@example.com", upd.Email)
	assert.Equal(t, "My Personal Blog", upd.BlogTitle)
	assert.Equal(t, []string{"Go", "Writing"}, upd.Skills)
	assert.Equal(t, "janedoe", upd.SocialMedia.Github)
	assert.Equal(t, joined, upd.JoinDate)

	reset, err := e.settings.Reset(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, "Admin User", reset.FullName)
	assert.Equal(t, "admin@example.com", reset.Email)
	assert.Equal(t, joined, reset.JoinDate)

	_, err = e.settings.Reset(ctx, bob)
	requireKind(t, err, apperr.KindForbidden)
}

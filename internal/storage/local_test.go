package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/api/v1/files/"})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "avatars/u1/a.png", strings.NewReader("png-bytes"), "image/png"))

	exists, err := s.Exists(ctx, "avatars/u1/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	obj, err := s.Open(ctx, "avatars/u1/a.png")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, obj.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, int64(9), obj.Size)
	assert.Equal(t, "image/png", obj.ContentType)

	assert.Equal(t, "/api/v1/files/avatars/u1/a.png", s.URL("avatars/u1/a.png"))

	require.NoError(t, s.Delete(ctx, "avatars/u1/a.png"))
	_, err = s.Open(ctx, "avatars/u1/a.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, "avatars/u1/a.png"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	_, err = s.Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	// "../" схлопывается к корню хранилища и не выходит за его пределы
	_, err = s.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"avatars/a.png", "avatars/a.png", false},
		{"/avatars//a.png", "avatars/a.png", false},
		{"../secret", "secret", false},
		{"a\\b.png", "a/b.png", false},
		{"", "", true},
		{"/", "", true},
	}
	for _, tt := range tests {
		got, err := CleanKey(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidKey, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolver(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	resolve := Resolver(s, "https://api.example.com/")
	assert.Nil(t, resolve(""))

	got := resolve("logos/acme.png")
	require.NotNil(t, got)
	assert.Equal(t, "https://api.example.com/api/v1/files/logos/acme.png", *got)

	got = resolve("https://cdn.example.com/x.png")
	require.NotNil(t, got)
	assert.Equal(t, "https://cdn.example.com/x.png", *got)
}

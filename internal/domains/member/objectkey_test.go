package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{"simple", "photo.png", "png", false},
		{"uppercase lowered", "photo.PNG", "png", false},
		{"everything after first dot", "archive.tar.gz", "tar.gz", false},
		{"no dot", "photo", "", true},
		{"trailing dot", "photo.", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PhotoExtension(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadImageName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhotoObjectKey(t *testing.T) {
	m := &Member{ID: 5, FirstName: "John", MiddleName: "Q", LastName: "Doe"}
	assert.Equal(t, "John Q Doe 5.png", PhotoObjectKey(m, "png"))
}

func TestPhotoObjectKey_SameNameDifferentMembers(t *testing.T) {
	a := &Member{ID: 1, FirstName: "John", MiddleName: "Q", LastName: "Doe"}
	b := &Member{ID: 2, FirstName: "John", MiddleName: "Q", LastName: "Doe"}
	assert.NotEqual(t, PhotoObjectKey(a, "png"), PhotoObjectKey(b, "png"))
}

func TestLocalImageName(t *testing.T) {
	assert.Equal(t, "John Q Doe.jpg", LocalImageName("John", "Q", "Doe", "jpg"))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLectureEmbedURL(t *testing.T) {
	tests := []struct {
		name         string
		resourceType LectureResourceType
		url          string
		want         string
	}{
		{
			name:         "watch link",
			resourceType: LectureYoutube,
			url:          "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:         "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:         "watch link with extra params",
			resourceType: LectureYoutube,
			url:          "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=120",
			want:         "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:         "short link",
			resourceType: LectureYoutube,
			url:          "https://youtu.be/dQw4w9WgXcQ?si=abc",
			want:         "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:         "unrecognised youtube url passes through",
			resourceType: LectureYoutube,
			url:          "https://www.youtube.com/playlist?list=PL123",
			want:         "https://www.youtube.com/playlist?list=PL123",
		},
		{
			name:         "uploaded video passes through",
			resourceType: LectureVideo,
			url:          "/uploads/lectures/abc.mp4",
			want:         "/uploads/lectures/abc.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Lecture{ResourceType: tt.resourceType, ResourceURL: tt.url}
			assert.Equal(t, tt.want, l.EmbedURL())
		})
	}
}

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		path string
		want AccessClass
	}{
		{"mp4 is video", "courses/abc/lecture.mp4", ClassVideo},
		{"webm is video", "clips/intro.webm", ClassVideo},
		{"mkv is video", "raw/recording.mkv", ClassVideo},
		{"uppercase extension is video", "courses/abc/LECTURE.MP4", ClassVideo},
		{"pdf is document", "courses/abc/syllabus.pdf", ClassDocument},
		{"docx is document", "handouts/week1.docx", ClassDocument},
		{"pptx is document", "slides/deck.pptx", ClassDocument},
		{"png is generic", "images/logo.png", ClassGeneric},
		{"jpeg is generic", "thumbnails/course.jpeg", ClassGeneric},
		{"no extension is generic", "README", ClassGeneric},
		{"unknown extension is generic", "data/archive.tar", ClassGeneric},
		{"empty path is generic", "", ClassGeneric},
		{"dotfile is generic", ".gitignore", ClassGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestAccessClassIsVideo(t *testing.T) {
	assert.True(t, ClassVideo.IsVideo())
	assert.False(t, ClassDocument.IsVideo())
	assert.False(t, ClassGeneric.IsVideo())
}

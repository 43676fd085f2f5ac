package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
)

func ptr(s string) *string {
	return &s
}

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name string
		body string
		want entity.SEO
	}{
		{
			name: "all fields",
			body: `<html><head><title>T</title><meta name="description" content="D"></head><body><h1>H</h1></body></html>`,
			want: entity.SEO{H1: ptr("H"), Title: ptr("T"), Description: ptr("D")},
		},
		{
			name: "no h1",
			body: `<html><head><title>T</title></head><body><p>text</p></body></html>`,
			want: entity.SEO{Title: ptr("T")},
		},
		{
			name: "empty document",
			body: ``,
			want: entity.SEO{},
		},
		{
			name: "first element wins",
			body: `<title>first</title><title>second</title><h1>one</h1><h1>two</h1>`,
			want: entity.SEO{H1: ptr("one"), Title: ptr("first")},
		},
		{
			name: "nested h1 text is trimmed",
			body: `<h1>
				<a href="/">Hello <b>world</b></a>
			</h1>`,
			want: entity.SEO{H1: ptr("Hello world")},
		},
		{
			name: "empty h1",
			body: `<h1></h1>`,
			want: entity.SEO{H1: ptr("")},
		},
		{
			name: "first description without content",
			body: `<meta name="description"><meta name="description" content="second">`,
			want: entity.SEO{},
		},
		{
			name: "first description wins",
			body: `<meta name="description" content="first"><meta name="description" content="second">`,
			want: entity.SEO{Description: ptr("first")},
		},
		{
			name: "description name is case sensitive",
			body: `<meta name="Description" content="D">`,
			want: entity.SEO{},
		},
		{
			name: "other meta tags ignored",
			body: `<meta name="keywords" content="k"><meta property="og:description" content="og">`,
			want: entity.SEO{},
		},
		{
			name: "malformed html",
			body: `<div><h1>H</div><p>unclosed <span>`,
			want: entity.SEO{H1: ptr("H")},
		},
		{
			name: "utf-8 text",
			body: `<h1>Привет</h1>`,
			want: entity.SEO{H1: ptr("Привет")},
		},
	}

	e := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract([]byte(tt.body)))
		})
	}
}

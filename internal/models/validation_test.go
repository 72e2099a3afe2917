package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func fieldErrors(t *testing.T, err error) map[string]FieldError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr.Errors
}

func TestValidatePost(t *testing.T) {
	if err := ValidatePost("Test this post", "Test post content"); err != nil {
		t.Fatalf("valid post rejected: %v", err)
	}

	errs := fieldErrors(t, ValidatePost("", "Test title 2"))
	if _, ok := errs["title"]; !ok || len(errs) != 1 {
		t.Errorf("missing title: errors = %v", errs)
	}
	if errs["title"].Message != "You must provide a title" {
		t.Errorf("message = %q", errs["title"].Message)
	}

	errs = fieldErrors(t, ValidatePost("Test content 3", ""))
	if _, ok := errs["content"]; !ok || len(errs) != 1 {
		t.Errorf("missing content: errors = %v", errs)
	}

	errs = fieldErrors(t, ValidatePost("", ""))
	if len(errs) != 2 {
		t.Errorf("errors = %v, want both fields", errs)
	}
}

func TestValidatePostTitleLength(t *testing.T) {
	cases := []struct {
		title string
		ok    bool
		kind  string
	}{
		{"ab", false, "minlength"},
		{"abc", true, ""},
		{strings.Repeat("x", 50), true, ""},
		{strings.Repeat("x", 51), false, "maxlength"},
		{"héé", true, ""},
	}
	for _, tc := range cases {
		err := ValidatePost(tc.title, "body")
		if tc.ok {
			if err != nil {
				t.Errorf("title %q: unexpected error %v", tc.title, err)
			}
			continue
		}
		errs := fieldErrors(t, err)
		if errs["title"].Kind != tc.kind {
			t.Errorf("title %q: kind = %q, want %q", tc.title, errs["title"].Kind, tc.kind)
		}
	}
}

func TestValidatePostUpdate(t *testing.T) {
	if err := ValidatePostUpdate(PostUpdate{}); err != nil {
		t.Errorf("empty update rejected: %v", err)
	}
	content := "new content"
	if err := ValidatePostUpdate(PostUpdate{Content: &content}); err != nil {
		t.Errorf("content-only update rejected: %v", err)
	}
	short := "no"
	errs := fieldErrors(t, ValidatePostUpdate(PostUpdate{Title: &short}))
	if _, ok := errs["content"]; ok {
		t.Error("absent content must not be checked")
	}
	if _, ok := errs["title"]; !ok {
		t.Error("short title must be reported")
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidatePost("", "")
	want := "post validation failed: title: You must provide a title, content: You must provide the content"
	if err.Error() != want {
		t.Errorf("Error() = %q", err.Error())
	}

	b, _ := json.Marshal(err)
	var body struct {
		Errors map[string]FieldError `json:"errors"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		t.Fatal(err)
	}
	if body.Errors["title"].Kind != "required" || body.Errors["title"].Path != "title" {
		t.Errorf("json = %s", b)
	}
}

func TestPostUpdateApply(t *testing.T) {
	p := Post{Title: "Original", Content: "Body"}
	title := "Changed"
	PostUpdate{Title: &title}.Apply(&p)
	if p.Title != "Changed" || p.Content != "Body" {
		t.Errorf("post = %+v", p)
	}
}

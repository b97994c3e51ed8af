// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/samber/oops"
)

const contentTypeJSON = "application/json"

// FormData is a multipart/form-data body of plain fields and files.
type FormData struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	r        io.Reader
}

// NewFormData returns an empty multipart body.
func NewFormData() *FormData {
	return &FormData{}
}

// Set appends a plain field.
func (f *FormData) Set(name, value string) *FormData {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part read from r.
func (f *FormData) AddFile(field, filename string, r io.Reader) *FormData {
	f.files = append(f.files, formFile{field: field, filename: filename, r: r})
	return f
}

func (f *FormData) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", oops.Code(CodeInvalidRequest).With("field", fld.name).Wrap(err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", oops.Code(CodeInvalidRequest).With("field", file.field).Wrap(err)
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", oops.Code(CodeInvalidRequest).
				With("field", file.field).
				With("filename", file.filename).
				Wrapf(err, "read upload")
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", oops.Code(CodeInvalidRequest).Wrap(err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// encodeBody serializes body. The returned content type is empty for a nil
// body; isMultipart reports whether the type carries a form boundary.
func encodeBody(body any) (payload []byte, contentType string, isMultipart bool, err error) {
	switch b := body.(type) {
	case nil:
		return nil, "", false, nil
	case *FormData:
		if b == nil {
			return nil, "", false, nil
		}
		payload, contentType, err = b.encode()
		return payload, contentType, true, err
	case json.RawMessage:
		if !json.Valid(b) {
			return nil, "", false, oops.Code(CodeInvalidRequest).Errorf("raw body is not valid JSON")
		}
		return b, contentTypeJSON, false, nil
	default:
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, "", false, oops.Code(CodeInvalidRequest).Wrapf(err, "encode request body")
		}
		return payload, contentTypeJSON, false, nil
	}
}

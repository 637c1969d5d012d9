// Package storage keeps the task list in a JSON document on disk.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nasin/internal/sched"
)

// Document is the on-disk shape of the task list.
type Document struct {
	Tasks []sched.Task `json:"tasks"`
}

// File stores the task list as a JSON document at Path.
// It implements sched.Store.
type File struct {
	Path string
}

// Open returns a File for dir/tasks.json, creating the directory and an
// empty document when they do not exist yet.
func Open(dir string) (*File, error) {
	f := &File{Path: filepath.Join(dir, FileName)}
	if err := f.ensure(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) ensure() error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	file, err := os.OpenFile(f.Path, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return fmt.Errorf("create task file: %w", err)
	}
	return file.Close()
}

// Load reads, validates and parses the document. An empty document yields
// no tasks.
func (f *File) Load() ([]sched.Task, error) {
	if err := f.ensure(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	return doc.Tasks, nil
}

// Save overwrites the document with tasks, using 2-space indentation and
// a trailing newline.
func (f *File) Save(tasks []sched.Task) error {
	if tasks == nil {
		tasks = []sched.Task{}
	}
	data, err := json.MarshalIndent(Document{Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

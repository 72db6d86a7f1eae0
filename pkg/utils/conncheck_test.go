package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "postgresql://user:pw@db.example.com:5433/mydb", "db.example.com:5433"},
		{"default port", "postgresql://user:pw@db.example.com/mydb", "db.example.com:5432"},
		{"no match", "mysql://whatever", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestExtractFromNatsURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "nats://broker:4223", "broker:4223"},
		{"default port", "nats://broker", "broker:4222"},
		{"with credentials", "nats://user:pw@broker:4222", "broker:4222"},
		{"no match", "http://broker", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromNatsURL(tt.url))
		})
	}
}

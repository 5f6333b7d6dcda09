package service_test

import (
	"bytes"
	"strings"
	"testing"

	"maxelo/attendance/internal/service"
)

func TestWriteBadgeSheet(t *testing.T) {
	employees := []service.Employee{
		{ID: 1, Names: "Thabo", Surname: "Nkosi", Email: "thabo@maxelo.co.za"},
		{ID: 2, Names: "Jane", Surname: "Mokoena", Email: "jane@maxelo.co.za"},
		{ID: 3, Names: "Sipho", Surname: "Dlamini", Email: "sipho@maxelo.co.za"},
		{ID: 4, Names: "Lerato", Surname: "Molefe", Email: "lerato@maxelo.co.za"},
	}

	var buf bytes.Buffer
	if err := service.WriteBadgeSheet(employees, &buf); err != nil {
		t.Fatalf("WriteBadgeSheet: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("output does not look like a PDF")
	}
}

func TestWriteBadgeSheetEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := service.WriteBadgeSheet(nil, &buf); err != nil {
		t.Fatalf("WriteBadgeSheet: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("expected an empty but valid PDF")
	}
}

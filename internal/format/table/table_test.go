package table

import (
	"reflect"
	"testing"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"id", "host", "partitions"},
		{"1", "kafka-1.internal", "12"},
		{"10", "k2", "3"},
	}
	got := Format(rows, []Alignment{AlignRight, AlignLeft, AlignRight})
	want := []string{
		"id  host              partitions",
		" 1  kafka-1.internal          12",
		"10  k2                         3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatRaggedRows(t *testing.T) {
	got := Format([][]string{{"a", "b"}, {"long"}}, nil)
	want := []string{"a     b", "long  "}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}

func TestFields(t *testing.T) {
	got := Fields([]Field{{"ID", "1"}, {"Controller", "true"}})
	want := []string{"ID:          1", "Controller:  true"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

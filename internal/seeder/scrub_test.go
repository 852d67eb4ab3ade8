package seeder

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
	"github.com/Lumos-Labs-HQ/flashseed/internal/policy"
)

func TestScrub(t *testing.T) {
	job := JobSpec{Table: "users", PrimaryKey: "id", Options: policy.SkipPrimaryKey}

	rec, err := Scrub(job, jsonstream.Record{"id": 1, "name": "a"})
	if err != nil {
		t.Fatalf("Scrub failed: %v", err)
	}
	if !reflect.DeepEqual(rec, jsonstream.Record{"name": "a"}) {
		t.Errorf("unexpected record: %v", rec)
	}

	again, err := Scrub(job, rec)
	if err != nil || !reflect.DeepEqual(again, jsonstream.Record{"name": "a"}) {
		t.Errorf("scrubbing twice must be a no-op, got %v (%v)", again, err)
	}
}

func TestScrubWithoutFlagKeepsKey(t *testing.T) {
	job := JobSpec{Table: "users", PrimaryKey: "id", Options: policy.ImportData}
	rec, err := Scrub(job, jsonstream.Record{"id": 1})
	if err != nil || rec["id"] != 1 {
		t.Errorf("record must be unchanged, got %v (%v)", rec, err)
	}

	job.PrimaryKey = ""
	if _, err := Scrub(job, jsonstream.Record{"id": 1}); err != nil {
		t.Errorf("missing key name is fine without the flag: %v", err)
	}
}

func TestScrubWithoutKeyName(t *testing.T) {
	_, err := Scrub(JobSpec{Table: "users", Options: policy.SkipPrimaryKey}, jsonstream.Record{"id": 1})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestTableName(t *testing.T) {
	cases := map[string]string{
		"User":               "users",
		"OrderItem":          "order_items",
		"App\\Models\\Story": "stories",
		"category":           "categories",
		"HTTPLog":            "http_logs",
		"user_profile":       "user_profiles",
		"":                   "",
	}
	for in, want := range cases {
		if got := TableName(in); got != want {
			t.Errorf("TableName(%q) = %q, want %q", in, got, want)
		}
	}
}

package exam

import (
	"reflect"
	"testing"
)

func TestParseCache(t *testing.T) {
	var c ParseCache

	a, hit := c.Parse(sampleExam)
	if hit {
		t.Fatalf("first parse cannot be a cache hit")
	}
	b, hit := c.Parse(sampleExam)
	if !hit {
		t.Fatalf("second parse of same text must hit")
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("cached parse differs from fresh parse")
	}

	if _, hit := c.Parse(singleKeyedExam); hit {
		t.Fatalf("changed text must miss")
	}
}

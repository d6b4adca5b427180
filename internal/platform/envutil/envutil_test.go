package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	t.Setenv("BANKADMIN_TEST_DUR", "45")
	if got := Duration("BANKADMIN_TEST_DUR", time.Second); got != 45*time.Second {
		t.Fatalf("seconds: want=45s got=%s", got)
	}
	t.Setenv("BANKADMIN_TEST_DUR", "2m")
	if got := Duration("BANKADMIN_TEST_DUR", time.Second); got != 2*time.Minute {
		t.Fatalf("go syntax: want=2m got=%s", got)
	}
	t.Setenv("BANKADMIN_TEST_DUR", "soon")
	if got := Duration("BANKADMIN_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("fallback: want=1s got=%s", got)
	}
}

func TestBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("BANKADMIN_TEST_BOOL", "maybe")
	if !Bool("BANKADMIN_TEST_BOOL", true) {
		t.Fatalf("want default true")
	}
	t.Setenv("BANKADMIN_TEST_BOOL", "off")
	if Bool("BANKADMIN_TEST_BOOL", true) {
		t.Fatalf("want false")
	}
}

func TestListDropsBlanks(t *testing.T) {
	t.Setenv("BANKADMIN_TEST_LIST", " http://a , ,http://b")
	got := List("BANKADMIN_TEST_LIST", nil)
	want := []string{"http://a", "http://b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list: want=%v got=%v", want, got)
	}
}

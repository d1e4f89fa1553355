package wire

import (
	"bufio"
	"strings"
	"testing"
)

func frameFrom(t *testing.T, raw string) *Frame {
	t.Helper()
	f, err := ReadFrame(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		t.Fatalf("ReadFrame(%q): %v", raw, err)
	}
	return f
}

func TestReadCreateOK(t *testing.T) {
	f := frameFrom(t, "CREATE OK\nName:foo\nPassword:secret\n")
	if f.Kind != "CREATE OK" || f.Header("Name") != "foo" || f.Header("Password") != "secret" {
		t.Fatalf("got %+v", f)
	}
}

func TestReadJoinOKWithPayload(t *testing.T) {
	payload := "<spreadsheet version=\"1\"></spreadsheet>"
	raw := "JOIN OK\nName:foo\nVersion:v1\nLength:" + itoa(len(payload)) + "\n" + payload
	f := frameFrom(t, raw)
	if f.Kind != "JOIN OK" || f.Header("Name") != "foo" || f.Header("Version") != "v1" {
		t.Fatalf("got %+v", f)
	}
	if string(f.Payload) != payload {
		t.Fatalf("payload = %q, want %q", f.Payload, payload)
	}
}

func TestReadUpdateWithPayload(t *testing.T) {
	payload := "=A1+1"
	raw := "UPDATE\nName:foo\nVersion:v2\nCell:B1\nLength:" + itoa(len(payload)) + "\n" + payload
	f := frameFrom(t, raw)
	if f.Kind != "UPDATE" || f.Header("Cell") != "B1" || string(f.Payload) != payload {
		t.Fatalf("got %+v", f)
	}
}

func TestReadChangeFailAccumulatesLines(t *testing.T) {
	f := frameFrom(t, "CHANGE FAIL\nName:foo\nstale version\n")
	if f.Kind != "CHANGE FAIL" {
		t.Fatalf("kind = %q", f.Kind)
	}
	want := []string{"Name:foo", "stale version"}
	if len(f.Lines) != len(want) {
		t.Fatalf("Lines = %v, want %v", f.Lines, want)
	}
	for i := range want {
		if f.Lines[i] != want[i] {
			t.Fatalf("Lines[%d] = %q, want %q", i, f.Lines[i], want[i])
		}
	}
}

func TestReadBareError(t *testing.T) {
	f := frameFrom(t, "ERROR\n")
	if f.Kind != "ERROR" {
		t.Fatalf("kind = %q", f.Kind)
	}
}

func TestReadSaveOK(t *testing.T) {
	f := frameFrom(t, "SAVE OK\n")
	if f.Kind != "SAVE OK" {
		t.Fatalf("kind = %q", f.Kind)
	}
}

func TestReadUnknownKindIsMalformed(t *testing.T) {
	_, err := ReadFrame(bufio.NewReader(strings.NewReader("BOGUS\n")))
	var merr *MalformedFrameError
	if err == nil {
		t.Fatal("want error for unrecognized selector")
	}
	if e, ok := err.(*MalformedFrameError); ok {
		merr = e
	} else {
		t.Fatalf("err = %v, want *MalformedFrameError", err)
	}
	if merr.Kind != "BOGUS" {
		t.Fatalf("Kind = %q", merr.Kind)
	}
}

func TestReadMissingHeaderIsMalformed(t *testing.T) {
	_, err := ReadFrame(bufio.NewReader(strings.NewReader("CREATE OK\nWrongHeader:foo\nPassword:x\n")))
	if _, ok := err.(*MalformedFrameError); !ok {
		t.Fatalf("err = %v, want *MalformedFrameError", err)
	}
}

// TestReadToleratesOutOfOrderHeaders covers spec.md §4.4's "Out-of-order
// fields within a reply are tolerated": a JOIN OK with Version: before
// Name: (and Length: last, as it must be to trigger the payload read)
// must parse identically to the in-order form.
func TestReadToleratesOutOfOrderHeaders(t *testing.T) {
	payload := "<spreadsheet version=\"1\"></spreadsheet>"
	raw := "JOIN OK\nVersion:v1\nName:foo\nLength:" + itoa(len(payload)) + "\n" + payload
	f := frameFrom(t, raw)
	if f.Kind != "JOIN OK" || f.Header("Name") != "foo" || f.Header("Version") != "v1" {
		t.Fatalf("got %+v", f)
	}
	if string(f.Payload) != payload {
		t.Fatalf("payload = %q, want %q", f.Payload, payload)
	}
}

// TestReadUndoOKToleratesOutOfOrderHeaders covers the same reordering
// tolerance for a shape with more than two headers ahead of its payload.
func TestReadUndoOKToleratesOutOfOrderHeaders(t *testing.T) {
	payload := "=A1+1"
	raw := "UNDO OK\nCell:B1\nVersion:v2\nName:foo\nLength:" + itoa(len(payload)) + "\n" + payload
	f := frameFrom(t, raw)
	if f.Kind != "UNDO OK" || f.Header("Name") != "foo" || f.Header("Version") != "v2" || f.Header("Cell") != "B1" {
		t.Fatalf("got %+v", f)
	}
	if string(f.Payload) != payload {
		t.Fatalf("payload = %q, want %q", f.Payload, payload)
	}
}

func TestCommandEncoders(t *testing.T) {
	if got := string(Create("foo", "pw")); got != "CREATE\nName:foo\nPassword:pw\n" {
		t.Errorf("Create = %q", got)
	}
	if got := string(Change("foo", "v3", "A1", "5")); got != "CHANGE\nName:foo\nVersion:v3\nCell:A1\nLength:1\n5\n" {
		t.Errorf("Change = %q", got)
	}
	if got := string(Leave("foo")); got != "LEAVE\nName:foo\n" {
		t.Errorf("Leave = %q", got)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

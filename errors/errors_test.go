package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDisassemble,
				Kind:   KindUnknownOpcode,
				Path:   []string{"methods[1]", "Code", "code@4"},
				Offset: 120,
				Detail: "opcode 0xcb is not defined",
			},
			contains: []string{"[disassemble]", "unknown_opcode", "methods[1].Code.code@4", "offset 120", "0xcb"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindUnexpectedEOF,
				Offset: NoOffset,
			},
			contains: []string{"[decode]", "unexpected_end_of_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidInput,
				Offset: NoOffset,
				Detail: "read file",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_input", "read file", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoOffsetOmitted(t *testing.T) {
	err := InvalidInput(PhaseLoad, "missing -class")
	if strings.Contains(err.Error(), "offset") {
		t.Errorf("message %q should not mention an offset", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Load("read file", cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseConstantPool,
		Kind:  KindUnknownConstantTag,
		Path:  []string{"#3"},
	}

	if !err.Is(&Error{Phase: PhaseConstantPool, Kind: KindUnknownConstantTag}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindUnknownConstantTag}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseConstantPool, Kind: KindUnknownOpcode}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrUnknownConstantTag) {
		t.Error("sentinel without phase should match on kind")
	}
	if errors.Is(err, ErrUnexpectedEOF) {
		t.Error("sentinel of another kind should not match")
	}
}

func TestIs_ThroughWrapping(t *testing.T) {
	inner := UnexpectedEOF(PhaseDecode, 10, 4, 1)
	wrapped := fmt.Errorf("decode Foo.class: %w", inner)
	if !errors.Is(wrapped, ErrUnexpectedEOF) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseConstantPool, KindUnknownConstantTag).
		Path("constant_pool", "#7").
		Offset(42).
		Value(uint8(99)).
		Cause(cause).
		Detail("tag %d is not defined", 99).
		Build()

	if err.Phase != PhaseConstantPool {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseConstantPool)
	}
	if err.Kind != KindUnknownConstantTag {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownConstantTag)
	}
	if len(err.Path) != 2 || err.Path[0] != "constant_pool" || err.Path[1] != "#7" {
		t.Errorf("Path = %v, want [constant_pool #7]", err.Path)
	}
	if err.Offset != 42 {
		t.Errorf("Offset = %d, want 42", err.Offset)
	}
	if err.Value != uint8(99) {
		t.Errorf("Value = %v, want 99", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "tag 99 is not defined" {
		t.Errorf("Detail = %v, want 'tag 99 is not defined'", err.Detail)
	}
}

func TestBuilder_DefaultOffset(t *testing.T) {
	err := New(PhaseDecode, KindInvalidData).Build()
	if err.Offset != NoOffset {
		t.Errorf("Offset = %d, want NoOffset", err.Offset)
	}
}

func TestWithin(t *testing.T) {
	err := error(DanglingReference(PhaseResolve, 9, 30))
	err = Within(err, "name_index")
	err = Within(err, "fields[0]")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("expected *Error")
	}
	if got := strings.Join(e.Path, "."); got != "fields[0].name_index" {
		t.Errorf("Path = %q, want fields[0].name_index", got)
	}

	plain := errors.New("plain")
	if Within(plain, "x") != plain {
		t.Error("Within should pass through non-structured errors")
	}
	if Within(nil, "x") != nil {
		t.Error("Within(nil) should be nil")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UnexpectedEOF", func(t *testing.T) {
		err := UnexpectedEOF(PhaseDecode, 8, 4, 2)
		if err.Kind != KindUnexpectedEOF {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnexpectedEOF)
		}
		if !strings.Contains(err.Detail, "need 4") {
			t.Errorf("Detail = %v, should mention the requested width", err.Detail)
		}
	})

	t.Run("UnknownConstantTag", func(t *testing.T) {
		err := UnknownConstantTag(3, 2)
		if err.Kind != KindUnknownConstantTag || err.Phase != PhaseConstantPool {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Value != uint8(2) {
			t.Errorf("Value = %v, want 2", err.Value)
		}
	})

	t.Run("DanglingReference", func(t *testing.T) {
		err := DanglingReference(PhaseResolve, 14, 20)
		if err.Kind != KindDanglingReference {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDanglingReference)
		}
		if err.Value != 14 {
			t.Errorf("Value = %v, want 14", err.Value)
		}
	})

	t.Run("UnknownOpcode", func(t *testing.T) {
		err := UnknownOpcode(5, 0xcb, "")
		if !strings.Contains(err.Detail, "0xcb") {
			t.Errorf("Detail = %v, should contain opcode", err.Detail)
		}
		custom := UnknownOpcode(5, 0x60, "iadd cannot be widened")
		if custom.Detail != "iadd cannot be widened" {
			t.Errorf("Detail = %v", custom.Detail)
		}
	})

	t.Run("MalformedDescriptor", func(t *testing.T) {
		err := MalformedDescriptor("(I", 2, "unterminated parameter list")
		if err.Kind != KindMalformedDescriptor {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMalformedDescriptor)
		}
		if !strings.Contains(err.Detail, `"(I"`) {
			t.Errorf("Detail = %v, should quote the descriptor", err.Detail)
		}
	})

	t.Run("InvalidData", func(t *testing.T) {
		err := InvalidData(PhaseAttribute, 77, "length mismatch")
		if err.Kind != KindInvalidData || err.Offset != 77 {
			t.Errorf("got kind %v offset %d", err.Kind, err.Offset)
		}
	})
}

func TestConstructors_MatchBuilder(t *testing.T) {
	cause := errors.New("root")
	tests := []struct {
		name string
		got  *Error
		want *Error
	}{
		{
			name: "InvalidData",
			got:  InvalidData(PhaseAttribute, 17, "2 unread bytes"),
			want: New(PhaseAttribute, KindInvalidData).Offset(17).Detail("2 unread bytes").Build(),
		},
		{
			name: "InvalidInput",
			got:  InvalidInput(PhaseLoad, "missing -class"),
			want: New(PhaseLoad, KindInvalidInput).Detail("missing -class").Build(),
		},
		{
			name: "Load",
			got:  Load("read file", cause),
			want: New(PhaseLoad, KindInvalidInput).Detail("read file").Cause(cause).Build(),
		},
		{
			name: "UnknownOpcode detail kept verbatim",
			got:  UnknownOpcode(4, 0xcb, "100% reserved"),
			want: New(PhaseDisassemble, KindUnknownOpcode).Offset(4).Value(uint8(0xcb)).Detail("%s", "100% reserved").Build(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

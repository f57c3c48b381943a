package model

import (
	"errors"
	"io/fs"
	"testing"
)

// TestFetchError tests error construction and classification.
func TestFetchError(t *testing.T) {
	t.Parallel()

	t.Run("wraps and unwraps cause", func(t *testing.T) {
		t.Parallel()

		cause := fs.ErrNotExist
		fe := NewFetchError(KindNotFound, cause)

		if !errors.Is(fe, fs.ErrNotExist) {
			t.Error("expected errors.Is to find the wrapped cause")
		}
		if fe.Kind != KindNotFound {
			t.Errorf("expected kind %q, got %q", KindNotFound, fe.Kind)
		}
	})

	t.Run("only transient kind is retryable", func(t *testing.T) {
		t.Parallel()

		kinds := map[ErrorKind]bool{
			KindTransient:           true,
			KindNotFound:            false,
			KindPermission:          false,
			KindDecode:              false,
			KindPermanent:           false,
			KindMalformedTarget:     false,
			KindRobotsDenied:        false,
			KindUnsupportedStrategy: false,
		}
		for kind, want := range kinds {
			fe := Fetchf(kind, "boom")
			if got := fe.Transient(); got != want {
				t.Errorf("kind %q: Transient() = %v, want %v", kind, got, want)
			}
		}
	})

	t.Run("error string includes kind", func(t *testing.T) {
		t.Parallel()

		fe := Fetchf(KindDecode, "invalid UTF-8 at byte 42")
		want := "decode_error: invalid UTF-8 at byte 42"
		if fe.Error() != want {
			t.Errorf("expected %q, got %q", want, fe.Error())
		}
	})
}

// TestAsFetchError tests conversion of plain errors into fetch errors.
func TestAsFetchError(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()

		if AsFetchError(nil) != nil {
			t.Error("expected nil for nil input")
		}
	})

	t.Run("tagged error passes through", func(t *testing.T) {
		t.Parallel()

		orig := Fetchf(KindTransient, "timeout")
		if got := AsFetchError(orig); got != orig {
			t.Error("expected the original *FetchError back")
		}
	})

	t.Run("plain error becomes permanent", func(t *testing.T) {
		t.Parallel()

		got := AsFetchError(errors.New("broken"))
		if got.Kind != KindPermanent {
			t.Errorf("expected kind %q, got %q", KindPermanent, got.Kind)
		}
	})
}

// TestFailedResult tests that failed results never carry a nil error.
func TestFailedResult(t *testing.T) {
	t.Parallel()

	task := NewSeedTask(StrategyPathWalk, "/nowhere")
	res := Failed(task, nil)

	if res.Success {
		t.Error("expected Success=false")
	}
	if res.Err == nil {
		t.Fatal("expected non-nil Err on failed result")
	}
	if res.ErrorKind() != KindPermanent {
		t.Errorf("expected kind %q, got %q", KindPermanent, res.ErrorKind())
	}
}

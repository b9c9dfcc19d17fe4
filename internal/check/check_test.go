package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFlow_SoftFailuresAggregate(t *testing.T) {
	f := New("product-review", zap.NewNop())
	ran := 0

	f.Step("open products")
	ran++
	assert.False(t, f.Soft(false, "ALL PRODUCTS page is visible"))

	f.Step("open first product")
	ran++
	assert.True(t, f.Soft(true, "Write Your Review is visible"))

	require.Equal(t, 2, ran, "a failed soft check must not stop later steps")

	err := f.Done()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssertion)

	var soft *SoftFailures
	require.ErrorAs(t, err, &soft)
	require.Len(t, soft.Failures, 1)
	assert.Equal(t, "ALL PRODUCTS page is visible", soft.Failures[0].Description)
	assert.Equal(t, "open products", soft.Failures[0].Step)
	assert.Contains(t, err.Error(), "1 soft assertion(s) failed")

	outcomes := f.Outcomes()
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[1].Passed)
}

func TestFlow_HardFailureStopsFlow(t *testing.T) {
	var steps []string
	run := func(f *Flow) error {
		for i, ok := range []bool{true, false, true} {
			name := []string{"home", "login", "checkout"}[i]
			f.Step(name)
			steps = append(steps, name)
			if err := f.Hard(ok, name+" succeeded"); err != nil {
				return err
			}
		}
		return f.Done()
	}

	err := run(New("product-order", nil))
	require.Error(t, err)
	assert.Equal(t, []string{"home", "login"}, steps)

	var hard *HardFailure
	require.ErrorAs(t, err, &hard)
	assert.Equal(t, "login", hard.Step)
	assert.Equal(t, "product-order [login]: login succeeded", hard.Error())
	assert.ErrorIs(t, err, ErrAssertion)
}

func TestFlow_DoneWithAllPassing(t *testing.T) {
	f := New("scroll", nil)
	f.Soft(true, "subscription visible")
	require.NoError(t, f.Hard(true, "home visible"))
	assert.NoError(t, f.Done())
}

func TestFlow_HardFailuresAreNotReportedBySoftDone(t *testing.T) {
	f := New("login", nil)
	_ = f.Hard(false, "home visible")
	assert.NoError(t, f.Done())
}

func TestFlow_Must(t *testing.T) {
	f := New("brand-products", nil)
	require.NoError(t, f.Must(nil, "click Polo"))

	cause := errors.New("element not clickable")
	err := f.Must(cause, "click H&M")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrAssertion)
	assert.Contains(t, err.Error(), "click H&M: element not clickable")
}

func TestFlow_LogsChecks(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := New("scroll", zap.New(core))

	f.Step("scroll down")
	f.Soft(false, "subscription visible")

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "step", entries[0].Message)
	assert.Equal(t, "check failed", entries[1].Message)
	assert.Equal(t, "scroll", entries[1].ContextMap()["flow"])
}

func TestFailures(t *testing.T) {
	assert.Nil(t, Failures(nil))
	assert.Equal(t, []string{"boom"}, Failures(errors.New("boom")))

	f := New("x", nil)
	f.Soft(false, "a")
	f.Soft(false, "b")
	assert.Equal(t, []string{"a", "b"}, Failures(f.Done()))

	hard := f.Hard(false, "c")
	assert.Equal(t, []string{"a", "b", "x: c"}, Failures(hard))

	assert.Equal(t, []string{"y: d"}, Failures(New("y", nil).Hard(false, "d")))
}

func TestFlow_HardFailureKeepsEarlierSoftFailures(t *testing.T) {
	f := New("f", nil)
	f.Soft(true, "banner visible")
	f.Soft(false, "cosmetic A missing")

	err := f.Must(errors.New("timeout"), "precondition B")

	var hard *HardFailure
	require.ErrorAs(t, err, &hard)
	require.Len(t, hard.Soft, 1)
	assert.Equal(t, "cosmetic A missing", hard.Soft[0].Description)
	assert.Equal(t, []string{"cosmetic A missing", "f: precondition B: timeout"}, Failures(err))
}

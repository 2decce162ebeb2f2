// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package syncx

import (
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"go.astrophena.name/presubmit/testutil"
)

func TestLazy(t *testing.T) {
	t.Parallel()

	var (
		l     Lazy[int]
		count int
	)
	f := func() int {
		count++
		return count
	}

	testutil.AssertEqual(t, l.Get(f), 1)
	testutil.AssertEqual(t, l.Get(f), 1)
	testutil.AssertEqual(t, count, 1)
}

func TestLazyConcurrent(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var (
			l     Lazy[int]
			calls atomic.Int32
		)
		for range 50 {
			go l.Get(func() int {
				calls.Add(1)
				return 42
			})
		}
		synctest.Wait()

		testutil.AssertEqual(t, l.Get(func() int { return 0 }), 42)
		testutil.AssertEqual(t, calls.Load(), int32(1))
	})
}

func TestLazyErr(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	var (
		l     Lazy[string]
		count int
	)
	f := func() (string, error) {
		count++
		return "", errBoom
	}

	for range 2 {
		_, err := l.GetErr(f)
		if !errors.Is(err, errBoom) {
			t.Fatalf("GetErr() error = %v, want %v", err, errBoom)
		}
	}
	testutil.AssertEqual(t, count, 1)
}

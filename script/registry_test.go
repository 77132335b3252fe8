package script

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register("/etc/app/config.js", map[string]any{"kittens": true}))

	m, err := reg.Evaluate("/etc/app/config.js")
	require.NoError(t, err)
	assert.Nil(t, m.Call)
	assert.Equal(t, map[string]any{"kittens": true}, m.Value)
}

func TestRegistry_RegisterFunc(t *testing.T) {
	reg := NewRegistry(nil)
	calls := 0
	require.NoError(t, reg.RegisterFunc("/etc/app/config.js", func() (any, error) {
		calls++
		return calls, nil
	}))

	for want := 1; want <= 2; want++ {
		m, err := reg.Evaluate("/etc/app/config.js")
		require.NoError(t, err)
		v, err := m.Call()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestRegistry_RelativeRegistration(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	reg := NewRegistry(nil)
	require.NoError(t, reg.Register("conf/app.js", "relative"))

	m, err := reg.Evaluate(filepath.Join(cwd, "conf", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "relative", m.Value)
}

func TestRegistry_Miss(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Evaluate("/etc/app/missing.js")
	require.Error(t, err)

	var pathErr *fs.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "evaluate", pathErr.Op)
	assert.Equal(t, "/etc/app/missing.js", pathErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRegistry_Fallback(t *testing.T) {
	var asked string
	fallback := EvaluatorFunc(func(path string) (Module, error) {
		asked = path
		return Module{Value: "from fallback"}, nil
	})
	reg := NewRegistry(fallback)
	require.NoError(t, reg.Register("/etc/app/known.js", "registered"))

	m, err := reg.Evaluate("/etc/app/known.js")
	require.NoError(t, err)
	assert.Equal(t, "registered", m.Value)
	assert.Empty(t, asked)

	m, err = reg.Evaluate("/etc/app/other.js")
	require.NoError(t, err)
	assert.Equal(t, "from fallback", m.Value)
	assert.Equal(t, "/etc/app/other.js", asked)
}

func TestAsync(t *testing.T) {
	release := make(chan struct{})
	p := Async(func() (any, error) {
		<-release
		return map[string]any{"kittens": true}, nil
	})
	close(release)

	v, err := p.Await()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kittens": true}, v)

	// Await is repeatable.
	v, err = p.Await()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kittens": true}, v)
}

func TestAsync_Error(t *testing.T) {
	boom := errors.New("boom")
	p := Async(func() (any, error) {
		return nil, boom
	})

	v, err := p.Await()
	assert.Nil(t, v)
	assert.ErrorIs(t, err, boom)
}

func TestAsync_Panic(t *testing.T) {
	p := Async(func() (any, error) {
		panic("kittens everywhere")
	})

	v, err := p.Await()
	assert.Nil(t, v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kittens everywhere")
}

func TestNewPending_AwaitsOnce(t *testing.T) {
	calls := 0
	p := NewPending(func() (any, error) {
		calls++
		return "done", nil
	})

	for i := 0; i < 3; i++ {
		v, err := p.Await()
		require.NoError(t, err)
		assert.Equal(t, "done", v)
	}
	assert.Equal(t, 1, calls)
}

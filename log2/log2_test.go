package log2

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog2(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		level  Level
		fun    func(t testing.TB, l *Log)
		expect string
	}{
		{"debug", LAll, func(t testing.TB, l *Log) { l.Debugf("low level var=%d", 42) }, "debug: low level var=42\n"},
		{"info", LAll, func(t testing.TB, l *Log) { l.Infof("regular state=%s", "ok") }, "regular state=ok\n"},
		{"error", LAll, func(t testing.TB, l *Log) { l.Errorf("problem") }, "error: problem\n"},
		{"printf", LAll, func(t testing.TB, l *Log) { l.Printf("mqtt %s", "connect") }, "mqtt connect\n"},
		{"skip-debug", LInfo, func(t testing.TB, l *Log) { l.Debugf("hidden") }, ""},
		{"skip-info", LError, func(t testing.TB, l *Log) { l.Info("hidden") }, ""},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name+"/logger=nil", func(t *testing.T) {
			c.fun(t, nil)
		})
		t.Run(c.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewWriter(buf, c.level)
			l.SetFlags(0)
			c.fun(t, l)
			assert.Equal(t, c.expect, buf.String())
		})
	}
}

func TestCallerFile(t *testing.T) {
	t.Parallel()
	buf := bytes.NewBuffer(nil)
	l := NewWriter(buf, LAll)
	l.SetFlags(log.Lshortfile)
	l.Infof("where")
	assert.True(t, strings.HasPrefix(buf.String(), "log2_test.go:"), buf.String())
}

func TestErrorFunc(t *testing.T) {
	t.Parallel()

	l := NewWriter(io.Discard, LAll)
	assert.Nil(t, l)

	var got []error
	l = NewWriter(bytes.NewBuffer(nil), LError)
	l.SetErrorFunc(func(e error) { got = append(got, e) })
	exact := fmt.Errorf("one particular issue")
	l.Error(exact)
	l.Errorf("trouble var=%.1f", 3.4)
	l.Info("not an error")
	require.Len(t, got, 2)
	assert.Equal(t, exact, got[0])
	assert.Equal(t, "trouble var=3.4", got[1].Error())
}

func TestClone(t *testing.T) {
	t.Parallel()
	buf := bytes.NewBuffer(nil)
	l := NewWriter(buf, LError)
	l.SetFlags(0)
	l.SetPrefix("sink ")
	c := l.Clone(LDebug)
	c.Debugf("visible")
	l.Debugf("hidden")
	assert.Equal(t, "sink debug: visible\n", buf.String())
}

func TestCloneErrorFunc(t *testing.T) {
	t.Parallel()

	var got []string
	l := NewWriter(bytes.NewBuffer(nil), LError)
	l.SetErrorFunc(func(e error) { got = append(got, e.Error()) })
	c := l.Clone(LInfo)
	c.Errorf("from clone")
	l.Errorf("from parent")
	assert.Equal(t, []string{"from clone", "from parent"}, got)

	var nilLog *Log
	assert.Nil(t, nilLog.Clone(LInfo))
	assert.NotPanics(t, func() { NewWriter(bytes.NewBuffer(nil), LError).Clone(LInfo).Errorf("no hook") })
}

package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type started struct{ name string }
type stopped struct{ name string }

func TestDispatchByType(t *testing.T) {
	b := New()
	var got []string
	On(b, func(_ context.Context, e started) { got = append(got, "first:"+e.name) })
	On(b, func(_ context.Context, e started) { got = append(got, "second:"+e.name) })
	On(b, func(_ context.Context, e stopped) { got = append(got, "stopped:"+e.name) })

	Emit(context.Background(), b, started{"a"})
	Emit(context.Background(), b, stopped{"a"})

	assert.Equal(t, []string{"first:a", "second:a", "stopped:a"}, got)
}

func TestUnsubscribeRemovesOnlyItsHandler(t *testing.T) {
	b := New()
	var got []string
	unsubFirst := On(b, func(_ context.Context, e started) { got = append(got, "first") })
	On(b, func(_ context.Context, e started) { got = append(got, "second") })

	unsubFirst()
	unsubFirst()
	Emit(context.Background(), b, started{})

	assert.Equal(t, []string{"second"}, got)
}

func TestGlobalBus(t *testing.T) {
	Use(nil)
	noop := Subscribe(func(context.Context, started) { t.Fatal("no bus installed") })
	Publish(context.Background(), started{})
	noop()

	b := New()
	Use(b)
	t.Cleanup(func() { Use(nil) })

	var n int
	unsub := Subscribe(func(context.Context, started) { n++ })
	Publish(context.Background(), started{})
	unsub()
	Publish(context.Background(), started{})
	assert.Equal(t, 1, n)
}

package csv

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
)

func TestWriter_WriteSnapshots(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	err := w.WriteSnapshots(context.Background(), []domain.Snapshot{
		{Client: 1, Available: domain.MustParseAmount("1"), Held: domain.MustParseAmount("2"), Total: domain.MustParseAmount("3")},
		{Client: 2, Available: domain.MustParseAmount("0.0001"), Total: domain.MustParseAmount("0.0001"), Locked: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "client,available,held,total,locked\n"+
		"1,1.0000,2.0000,3.0000,false\n"+
		"2,0.0001,0.0000,0.0001,true\n", buf.String())
}

func TestWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteSnapshots(context.Background(), nil))
	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}

func TestWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewWriter(&buf).WriteSnapshots(ctx, []domain.Snapshot{{Client: 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

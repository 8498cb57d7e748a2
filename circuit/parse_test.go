package circuit_test

import (
	"testing"

	"github.com/db47h/hwbench/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIO(t *testing.T) {
	td := []struct {
		spec string
		pins []string
		err  string
	}{
		{"in[2], sel", []string{"in[0]", "in[1]", "sel"}, ""},
		{" a ,, b ", []string{"a", "b"}, ""},
		{"", nil, ""},
		{"a b", nil, `in "a b": invalid pin name "a b"`},
		{"0a", nil, `in "0a": invalid pin name "0a"`},
		{"q[x]", nil, `in "q[x]": invalid bus size in "q[x]"`},
		{"q[0]", nil, `in "q[0]": invalid bus size in "q[0]"`},
		{"q[2", nil, `in "q[2": invalid bus declaration "q[2"`},
	}
	for _, d := range td {
		t.Run(d.spec, func(t *testing.T) {
			pins, err := circuit.ParseIO(d.spec)
			if d.err != "" {
				assert.EqualError(t, err, d.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, d.pins, pins)
		})
	}
	assert.Panics(t, func() { circuit.IO("a[") })
}

func TestParseConnections(t *testing.T) {
	td := []struct {
		in    string
		conns []circuit.Connection
		err   string
	}{
		{"a=x, b[0..1]=bus[4..5], c=true", []circuit.Connection{
			{PP: "a", CP: "x"},
			{PP: "b[0]", CP: "bus[4]"},
			{PP: "b[1]", CP: "bus[5]"},
			{PP: "c", CP: "true"},
		}, ""},
		{"in[0..2]=false", []circuit.Connection{
			{PP: "in[0]", CP: "false"},
			{PP: "in[1]", CP: "false"},
			{PP: "in[2]", CP: "false"},
		}, ""},
		{"out[3] = q", []circuit.Connection{{PP: "out[3]", CP: "q"}}, ""},
		{"", nil, ""},
		{"a", nil, `in "a": missing '=' in "a"`},
		{"a[0..1]=b[0..2]", nil, `in "a[0..1]=b[0..2]": pin count mismatch in "a[0..1]=b[0..2]"`},
		{"a[2..1]=b", nil, `in "a[2..1]=b": invalid bus range "a[2..1]"`},
		{"a=b-c", nil, `in "a=b-c": invalid pin name "b-c"`},
		{"a[x]=b", nil, `in "a[x]=b": invalid bus index in "a[x]"`},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			conns, err := circuit.ParseConnections(d.in)
			if d.err != "" {
				assert.EqualError(t, err, d.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, d.conns, conns)
		})
	}
}

func TestNewPart_panics(t *testing.T) {
	spec := &circuit.PartSpec{Name: "P", Inputs: circuit.IO("a"), Outputs: circuit.IO("b")}
	assert.PanicsWithError(t, `P: in "a": missing '=' in "a"`, func() { spec.NewPart("a") })
}

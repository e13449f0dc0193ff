package main

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blockalloc/alloc"
	"github.com/joshuapare/blockalloc/internal/script"
)

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name           string
		script         string // inline script; empty means testdata/reference.txt
		backing        string
		wantJSON       bool
		quiet          bool
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "reference trace",
			wantContain: []string{
				"create 100 -> ok",
				"alloc 20 owner=1 -> 0\n",
				"alloc 30 owner=2 -> 20\n",
				"alloc 60 owner=3 -> FAIL (no space)",
				"free owner=1 -> 20 bytes",
				"alloc 10 owner=4 -> 10\n",
				"alloc 20 owner=1 -> 50\n",
				"free owner=4 -> 20 bytes",
				"destroy -> ok",
			},
		},
		{
			name:        "reference trace on mmap",
			backing:     "mmap",
			wantContain: []string{"alloc 20 owner=1 -> 50\n", "destroy -> ok"},
		},
		{
			name:           "quiet",
			quiet:          true,
			wantNotContain: []string{"alloc"},
		},
		{
			name:        "use after destroy",
			script:      "create 10\ndestroy\nalloc 1 1\n",
			wantErr:     true,
			wantContain: []string{"destroy -> ok", "alloc 1 owner=1 -> error: alloc: allocator destroyed"},
		},
		{
			name:    "parse error",
			script:  "create ten\n",
			wantErr: true,
		},
		{
			name:    "unknown backing",
			backing: "tape",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			t.Cleanup(resetFlags)
			jsonOut = tt.wantJSON
			quiet = tt.quiet
			if tt.backing != "" {
				backingName = tt.backing
			}

			path := testScriptPath(t, "reference.txt")
			if tt.script != "" {
				path = writeScript(t, tt.script)
			}

			output, err := captureOutput(t, func() error {
				return runRun([]string{path})
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("runRun() error = %v, wantErr %v", err, tt.wantErr)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestRunCommandJSON(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runRun([]string{testScriptPath(t, "reference.txt")})
	})
	require.NoError(t, err)
	assertJSON(t, output)

	var results []resultJSON
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 11)

	assert.Equal(t, "create 100", results[0].Op)
	require.NotNil(t, results[1].Offset)
	assert.Equal(t, 0, *results[1].Offset)
	assert.True(t, results[3].NoSpace)
	assert.Nil(t, results[3].Offset)
	require.NotNil(t, results[4].Freed)
	assert.Equal(t, 20, *results[4].Freed)
	assert.Equal(t, 4, results[1].Line)
	assert.Equal(t, 13, results[10].Line)
}

func TestDescribeResult(t *testing.T) {
	tests := []struct {
		res  script.Result
		want string
	}{
		{script.Result{Op: script.Op{Kind: script.OpCreate, Size: 64}}, "create 64 -> ok"},
		{script.Result{Op: script.Op{Kind: script.OpAlloc, Size: 8, Owner: 2}, Offset: 16}, "alloc 8 owner=2 -> 16"},
		{
			script.Result{
				Op:     script.Op{Kind: script.OpAlloc, Size: 99, Owner: 2},
				Offset: alloc.NoSpace,
				Err:    fmt.Errorf("%w: 99 bytes for owner 2", alloc.ErrNoSpace),
			},
			"alloc 99 owner=2 -> FAIL (no space)",
		},
		{script.Result{Op: script.Op{Kind: script.OpFree, Owner: 5}, Freed: 12}, "free owner=5 -> 12 bytes"},
		{script.Result{Op: script.Op{Kind: script.OpFree, Owner: 5}, Err: script.ErrNoAllocator}, "free owner=5 -> error: script: no allocator, missing create"},
		{script.Result{Op: script.Op{Kind: script.OpDestroy}}, "destroy -> ok"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeResult(tt.res))
	}
}

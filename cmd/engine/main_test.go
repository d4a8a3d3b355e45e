package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruralpay/payments-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig() *config.Config {
	return &config.Config{Engine: config.EngineConfig{Precision: 4}}
}

func TestRun(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 10.0\n" +
		"withdrawal, 1, 2, 3.0\n" +
		"deposit, 2, 1, 5.0\n" +
		"withdrawal, 2, 2, 8.0\n" +
		"deposit, 3, 1, 10.0\n" +
		"dispute, 3, 1,\n" +
		"resolve, 3, 1,\n" +
		"deposit, 4, 1, 10.0\n" +
		"dispute, 4, 1,\n" +
		"chargeback, 4, 1,\n" +
		"deposit, 5, 1, 10.0\n" +
		"withdrawal, 5, 2, 10.0\n" +
		"dispute, 5, 1,\n" +
		"dispute, 6, 99,\n" +
		"deposit, x, 1, 1.0\n"

	var out bytes.Buffer
	err := run(context.Background(), testConfig(), zap.NewNop(), []string{writeInput(t, input)}, &out)
	require.NoError(t, err)

	assert.Equal(t,
		"client,available,held,total,locked\n"+
			"1,7.0000,0.0000,7.0000,false\n"+
			"2,5.0000,0.0000,5.0000,false\n"+
			"3,10.0000,0.0000,10.0000,false\n"+
			"4,0.0000,0.0000,0.0000,true\n"+
			"5,0.0000,0.0000,0.0000,false\n"+
			"6,0.0000,0.0000,0.0000,false\n",
		out.String())
}

func TestRun_Errors(t *testing.T) {
	t.Run("no arguments", func(t *testing.T) {
		err := run(context.Background(), testConfig(), zap.NewNop(), nil, &bytes.Buffer{})
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("too many arguments", func(t *testing.T) {
		err := run(context.Background(), testConfig(), zap.NewNop(), []string{"a.csv", "b.csv"}, &bytes.Buffer{})
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope.csv")
		err := run(context.Background(), testConfig(), zap.NewNop(), []string{missing}, &bytes.Buffer{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad header", func(t *testing.T) {
		var out bytes.Buffer
		err := run(context.Background(), testConfig(), zap.NewNop(), []string{writeInput(t, "a,b,c\n1,2,3\n")}, &out)
		assert.Error(t, err)
		assert.Empty(t, out.String())
	})

	t.Run("unknown export sink", func(t *testing.T) {
		cfg := testConfig()
		cfg.Export.Sinks = []string{"kafka"}
		err := run(context.Background(), cfg, zap.NewNop(), []string{writeInput(t, "type,client,tx,amount\n")}, &bytes.Buffer{})
		assert.EqualError(t, err, `unknown export sink "kafka"`)
	})

	t.Run("unknown sink fails before connecting", func(t *testing.T) {
		cfg := testConfig()
		cfg.Export.Sinks = []string{"redis", "kafka"}
		cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: "1"}
		err := run(context.Background(), cfg, zap.NewNop(), []string{writeInput(t, "type,client,tx,amount\n")}, &bytes.Buffer{})
		assert.EqualError(t, err, `unknown export sink "kafka"`)
	})
}

func TestOpenExporters_NoSinks(t *testing.T) {
	exporters, closeAll, err := openExporters(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Empty(t, exporters)
	closeAll()
}

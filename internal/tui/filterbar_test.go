package tui

import (
	"testing"
	"time"

	"github.com/red-movilidad/red-cli/internal/testutil"
)

func TestRenderServiceBar(t *testing.T) {
	m := newTestModel(t)
	m.stop = sampleStop()

	output := m.renderServiceBar()
	testutil.AssertContains(t, output, "[506]")
	testutil.AssertContains(t, output, "[D18]")
	testutil.AssertContains(t, output, "Auto 30s")
	testutil.AssertNotContains(t, output, "Actualizado")
}

func TestRenderServiceBar_HiddenService(t *testing.T) {
	m := newTestModel(t)
	m.stop = sampleStop()
	m.hiddenServices["D18"] = true

	output := m.renderServiceBar()
	testutil.AssertContains(t, output, "[506]")
	testutil.AssertNotContains(t, output, "[D18]")
	testutil.AssertContains(t, output, " D18 ")
}

func TestRenderServiceBar_Countdown(t *testing.T) {
	m := newTestModel(t)
	m.stop = sampleStop()
	m.lastUpdate = time.Now()

	output := m.renderServiceBar()
	testutil.AssertContains(t, output, "Actualizado:")
	testutil.AssertNotContains(t, output, "actualiza en")

	m.autoRefresh = true
	output = m.renderServiceBar()
	testutil.AssertContains(t, output, "actualiza en")
}

func TestRenderChip(t *testing.T) {
	m := newTestModel(t)

	testutil.AssertContains(t, m.renderChip("506", true, false), "[506]")
	testutil.AssertContains(t, m.renderChip("506", false, false), " 506 ")
	testutil.AssertContains(t, m.renderChip("506", true, true), "[506]")
}

// Command monitor is a terminal console for running a ROM image: a
// bubbletea TUI shows live registers and a trace log, forwards
// keystrokes to the emulated keyboard port, and streams whatever the
// ACIA transmits to a scrollback pane.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/mitchchn/6502/cpu"
	"github.com/mitchchn/6502/loader"
)

var (
	romPath    = flag.String("rom", "", "Path to the ROM image to load")
	stepsPerUI = flag.Int("steps", 200, "Instructions executed per keypress in run mode")
)

const scrollbackLines = 200

var (
	regStyle   = lipgloss.NewStyle().Bold(true)
	haltStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	paneStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	flagLabels = "N V _ B D I Z C"
)

type stepMsg struct{}

type model struct {
	machine *loader.Machine
	chip    *cpu.Chip

	scrollback []string
	halted     error
	running    bool
}

func initialModel(romPath string) (model, error) {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return model{}, fmt.Errorf("monitor: can't load rom: %w", err)
	}
	machine, err := loader.NewDefaultMachine(rom)
	if err != nil {
		return model{}, fmt.Errorf("monitor: can't build machine: %w", err)
	}
	chip, err := cpu.New(cpu.Config{Bus: machine.Bus})
	if err != nil {
		return model{}, fmt.Errorf("monitor: can't build CPU: %w", err)
	}
	chip.SetTracing(true)
	return model{machine: machine, chip: chip}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m *model) drainACIA() {
	for _, b := range m.machine.ACIA.DrainTX() {
		if b == '\n' {
			m.scrollback = append(m.scrollback, "")
		} else if len(m.scrollback) == 0 {
			m.scrollback = append(m.scrollback, string(b))
		} else {
			m.scrollback[len(m.scrollback)-1] += string(b)
		}
	}
	if len(m.scrollback) > scrollbackLines {
		m.scrollback = m.scrollback[len(m.scrollback)-scrollbackLines:]
	}
}

func (m *model) step(n int) {
	for i := 0; i < n; i++ {
		if _, err := m.chip.Step(); err != nil {
			m.halted = err
			m.running = false
			break
		}
	}
	m.drainACIA()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		s := msg.String()
		switch s {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ":
			if m.halted == nil {
				m.step(1)
			}
		case "r":
			if m.halted == nil {
				m.step(*stepsPerUI)
			}
		case "ctrl+r":
			m.chip.Reset()
			m.halted = nil
		default:
			if len(s) == 1 && m.halted == nil {
				m.machine.KeyPort.Press(s[0])
			}
		}
	}
	return m, nil
}

func (m model) registers() string {
	c := m.chip
	bits := make([]string, 0, 8)
	for i := 7; i >= 0; i-- {
		bits = append(bits, fmt.Sprint((c.P>>i)&1))
	}
	return regStyle.Render(fmt.Sprintf(
		"PC:%04X A:%02X X:%02X Y:%02X S:%02X  cycles:%d\n%s\n%s",
		c.PC, c.A, c.X, c.Y, c.S, c.Cycles(), flagLabels, strings.Join(bits, " "),
	))
}

func (m model) trace() string {
	entries := m.chip.Trace()
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintln(&b, e.Disassembly)
	}
	return b.String()
}

func (m model) View() string {
	status := m.registers()
	if m.halted != nil {
		status += "\n" + haltStyle.Render("halted: "+m.halted.Error())
		status += "\n" + spew.Sdump(m.halted)
	}
	traceLog := paneStyle.Render(m.trace())
	console := paneStyle.Render(strings.Join(m.scrollback, "\n"))
	help := "space: step   r: run burst   ctrl+r: reset   q: quit"
	return lipgloss.JoinVertical(lipgloss.Left, status, traceLog, console, help)
}

func main() {
	flag.Parse()
	if *romPath == "" {
		log.Fatalf("monitor: -rom is required")
	}
	m, err := initialModel(*romPath)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

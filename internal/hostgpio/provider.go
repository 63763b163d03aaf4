// Package hostgpio builds the GPIO status payload on the Raspberry Pi itself,
// from raspi-gpio and raspi-config.
package hostgpio

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/pinout"
)

// Host commands the payload depends on.
const (
	RaspiConfig = "raspi-config"
	RaspiGPIO   = "raspi-gpio"
)

type serviceQuery struct {
	get string
	set func(*pinout.Services, bool)
}

var serviceQueries = []serviceQuery{
	{"get_camera", func(s *pinout.Services, v bool) { s.Camera = v }},
	{"get_ssh", func(s *pinout.Services, v bool) { s.SSH = v }},
	{"get_spi", func(s *pinout.Services, v bool) { s.SPI = v }},
	{"get_i2c", func(s *pinout.Services, v bool) { s.I2C = v }},
	{"get_serial", func(s *pinout.Services, v bool) { s.Serial = v }},
	{"get_serial_hw", func(s *pinout.Services, v bool) { s.SerialHW = v }},
	{"get_onewire", func(s *pinout.Services, v bool) { s.OneWire = v }},
	{"get_rgpio", func(s *pinout.Services, v bool) { s.RemoteGPIO = v }},
}

// Provider answers gpio_status requests. The header layout and hardware
// facts are fixed at construction; pin states and services are read on
// every call. The alternate function table is read once and cached.
type Provider struct {
	runner   CommandRunner
	layout   *pinout.Status
	hardware *pinout.Hardware
	maxBCM   int

	mu    sync.Mutex
	funcs map[int]pinFuncs
}

// NewProvider creates a provider for a header layout. Layout pins need only
// PhysicalName and Name; BCM data is filled in per request.
func NewProvider(layout *pinout.Status, hardware *pinout.Hardware, runner CommandRunner) (*Provider, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = ExecRunner{}
	}

	maxBCM := -1
	for _, p := range layout.Pins {
		if n, ok := bcmNumber(p.Name); ok && n > maxBCM {
			maxBCM = n
		}
	}
	if maxBCM < 0 {
		return nil, fmt.Errorf("header has no GPIO pins")
	}

	return &Provider{runner: runner, layout: layout, hardware: hardware, maxBCM: maxBCM}, nil
}

// Commands reports which host tools are installed.
func (p *Provider) Commands(ctx context.Context) pinout.Commands {
	return pinout.Commands{
		RaspiConfig: commandExists(ctx, p.runner, RaspiConfig),
		RaspiGPIO:   commandExists(ctx, p.runner, RaspiGPIO),
	}
}

// Status answers a request. When a host command is missing only the
// command availability is returned.
func (p *Provider) Status(ctx context.Context, req pinout.Request) (*pinout.Response, error) {
	resp := &pinout.Response{Commands: p.Commands(ctx)}
	if !resp.Commands.Available() {
		logging.Warn("Host commands missing", zap.Strings("missing", resp.Commands.Missing()))
		return resp, nil
	}

	funcs, err := p.loadFuncs(ctx)
	if err != nil {
		return nil, err
	}

	out, err := p.runner.Exec(ctx, RaspiGPIO, "get", p.pinRange())
	if err != nil {
		return nil, fmt.Errorf("raspi-gpio get: %w", err)
	}
	states, err := parseGet(out)
	if err != nil {
		return nil, fmt.Errorf("raspi-gpio get: %w", err)
	}

	resp.Status = p.inject(states, funcs, req.WantsFuncs)
	resp.Services = p.services(ctx)
	if req.HW && p.hardware != nil {
		hw := *p.hardware
		resp.Hardware = &hw
	}
	return resp, nil
}

func (p *Provider) pinRange() string {
	return "0-" + strconv.Itoa(p.maxBCM)
}

func (p *Provider) loadFuncs(ctx context.Context) (map[int]pinFuncs, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.funcs != nil {
		return p.funcs, nil
	}

	out, err := p.runner.Exec(ctx, RaspiGPIO, "funcs", p.pinRange())
	if err != nil {
		return nil, fmt.Errorf("raspi-gpio funcs: %w", err)
	}
	funcs, err := parseFuncs(out)
	if err != nil {
		return nil, fmt.Errorf("raspi-gpio funcs: %w", err)
	}
	p.funcs = funcs
	return funcs, nil
}

// inject copies the layout and marks every pin raspi-gpio reported as BCM.
func (p *Provider) inject(states map[int]pinState, funcs map[int]pinFuncs, withFuncs bool) *pinout.Status {
	status := p.layout.Clone()
	for i := range status.Pins {
		pin := &status.Pins[i]
		n, ok := bcmNumber(pin.Name)
		state, found := states[n]
		if !ok || !found {
			pin.IsBCM = false
			continue
		}

		pin.IsBCM = true
		pin.CurrentValue = state.Level
		pin.CurrentFunc = state.Func
		f := funcs[n]
		pin.Pull = state.Pull
		if pin.Pull == "" {
			pin.Pull = f.DefaultPull
		}
		if withFuncs {
			pin.Funcs = append([]string(nil), f.Alts...)
		}
	}
	return status
}

// services queries raspi-config. "0" means enabled; a failing query is
// reported as disabled.
func (p *Provider) services(ctx context.Context) *pinout.Services {
	s := &pinout.Services{}
	for _, q := range serviceQueries {
		out, err := p.runner.Exec(ctx, RaspiConfig, "nonint", q.get)
		if err != nil {
			logging.Warn("raspi-config query failed", zap.String("query", q.get), zap.Error(err))
			continue
		}
		q.set(s, strings.TrimSpace(string(out)) == "0")
	}
	return s
}

func bcmNumber(name string) (int, bool) {
	return pinout.Pin{Name: name, IsBCM: true}.BCMNumber()
}

//go:build linux

package display

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SSD1680 command set (the subset this driver uses).
const (
	epdDriverOutput    = 0x01
	epdDeepSleep       = 0x10
	epdDataEntry       = 0x11
	epdSWReset         = 0x12
	epdMasterActivate  = 0x20
	epdDisplayUpdate1  = 0x21
	epdDisplayUpdate2  = 0x22
	epdWriteRAM        = 0x24
	epdBorderWaveform  = 0x3C
	epdSetRAMXRange    = 0x44
	epdSetRAMYRange    = 0x45
	epdSetRAMXCounter  = 0x4E
	epdSetRAMYCounter  = 0x4F
	epdBusyTimeout     = 10 * time.Second
	epdBusyPollPeriod  = 10 * time.Millisecond
	epdResetPulseWidth = 10 * time.Millisecond
)

// EPDConfig describes the panel wiring.
type EPDConfig struct {
	SPIPort string // e.g. "SPI0.0", empty for the first available port
	Chip    string // GPIO chip, e.g. "gpiochip0"
	DCPin   int    // data/command select
	RSTPin  int    // active-low reset
	BusyPin int    // high while the panel is refreshing
	Width   int
	Height  int
}

// EPD drives an SSD1680-class e-paper panel over SPI. Drawing happens in the
// embedded Memory frame; Flush packs the frame to the panel's portrait 1bpp
// layout and runs a full update cycle.
type EPD struct {
	*Memory
	port spi.PortCloser
	conn spi.Conn
	chip *gpiocdev.Chip
	dc   *gpiocdev.Line
	rst  *gpiocdev.Line
	busy *gpiocdev.Line
}

// NewEPD opens the SPI port and GPIO lines and initializes the panel.
func NewEPD(cfg EPDConfig) (*EPD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", cfg.SPIPort, err)
	}
	conn, err := port.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	chip, err := gpiocdev.NewChip(cfg.Chip)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	dc, err := chip.RequestLine(cfg.DCPin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		port.Close()
		return nil, fmt.Errorf("request DC pin %d: %w", cfg.DCPin, err)
	}
	rst, err := chip.RequestLine(cfg.RSTPin, gpiocdev.AsOutput(1))
	if err != nil {
		dc.Close()
		chip.Close()
		port.Close()
		return nil, fmt.Errorf("request RST pin %d: %w", cfg.RSTPin, err)
	}
	busy, err := chip.RequestLine(cfg.BusyPin, gpiocdev.AsInput)
	if err != nil {
		rst.Close()
		dc.Close()
		chip.Close()
		port.Close()
		return nil, fmt.Errorf("request BUSY pin %d: %w", cfg.BusyPin, err)
	}

	e := &EPD{
		Memory: NewMemory(cfg.Width, cfg.Height),
		port:   port,
		conn:   conn,
		chip:   chip,
		dc:     dc,
		rst:    rst,
		busy:   busy,
	}
	if err := e.initPanel(); err != nil {
		e.Close()
		return nil, fmt.Errorf("init panel: %w", err)
	}
	return e, nil
}

func (e *EPD) initPanel() error {
	if err := e.reset(); err != nil {
		return err
	}
	if err := e.command(epdSWReset); err != nil {
		return err
	}
	if err := e.waitIdle(); err != nil {
		return err
	}

	w, h := e.Memory.Size()
	// Panel RAM is portrait: h columns wide, w rows tall.
	rows := w - 1
	if err := e.command(epdDriverOutput, byte(rows), byte(rows>>8), 0x00); err != nil {
		return err
	}
	if err := e.command(epdDataEntry, 0x03); err != nil {
		return err
	}
	if err := e.command(epdSetRAMXRange, 0x00, byte(h/8-1)); err != nil {
		return err
	}
	if err := e.command(epdSetRAMYRange, 0x00, 0x00, byte(rows), byte(rows>>8)); err != nil {
		return err
	}
	if err := e.command(epdBorderWaveform, 0x05); err != nil {
		return err
	}
	if err := e.command(epdDisplayUpdate1, 0x00, 0x80); err != nil {
		return err
	}
	return e.waitIdle()
}

// Flush sends the current frame to the panel and triggers a refresh.
// It blocks until the panel reports idle (a full update takes ~2s).
func (e *EPD) Flush() error {
	if err := e.command(epdSetRAMXCounter, 0x00); err != nil {
		return err
	}
	if err := e.command(epdSetRAMYCounter, 0x00, 0x00); err != nil {
		return err
	}
	if err := e.command(epdWriteRAM, e.packPortrait()...); err != nil {
		return err
	}
	if err := e.command(epdDisplayUpdate2, 0xF7); err != nil {
		return err
	}
	if err := e.command(epdMasterActivate); err != nil {
		return err
	}
	return e.waitIdle()
}

// packPortrait rotates the landscape frame into the panel's portrait RAM
// layout: one byte covers 8 vertical landscape pixels, 1 = white.
func (e *EPD) packPortrait() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, h := e.w, e.h
	stride := (h + 7) / 8
	buf := make([]byte, stride*w)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if e.whiteAt(x, y) {
				bit := h - 1 - y
				buf[x*stride+bit/8] |= 0x80 >> (bit % 8)
			}
		}
	}
	return buf
}

// command sends a command byte followed by optional data bytes.
func (e *EPD) command(cmd byte, data ...byte) error {
	if err := e.dc.SetValue(0); err != nil {
		return fmt.Errorf("dc low: %w", err)
	}
	if err := e.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("send command %#02x: %w", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := e.dc.SetValue(1); err != nil {
		return fmt.Errorf("dc high: %w", err)
	}
	// Tx in chunks: spidev transfers are capped at 4096 bytes by default.
	for len(data) > 0 {
		n := len(data)
		if n > 4096 {
			n = 4096
		}
		if err := e.conn.Tx(data[:n], nil); err != nil {
			return fmt.Errorf("send data for %#02x: %w", cmd, err)
		}
		data = data[n:]
	}
	return nil
}

func (e *EPD) reset() error {
	for _, v := range []int{1, 0, 1} {
		if err := e.rst.SetValue(v); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		time.Sleep(epdResetPulseWidth)
	}
	return e.waitIdle()
}

func (e *EPD) waitIdle() error {
	deadline := time.Now().Add(epdBusyTimeout)
	for {
		v, err := e.busy.Value()
		if err != nil {
			return fmt.Errorf("read busy: %w", err)
		}
		if v == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("panel busy for more than %v", epdBusyTimeout)
		}
		time.Sleep(epdBusyPollPeriod)
	}
}

// Close puts the panel into deep sleep and releases SPI and GPIO resources.
func (e *EPD) Close() error {
	var errs []error
	if err := e.command(epdDeepSleep, 0x01); err != nil {
		errs = append(errs, err)
	}
	for _, l := range []*gpiocdev.Line{e.dc, e.rst, e.busy} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if e.chip != nil {
		if err := e.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if e.port != nil {
		if err := e.port.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close spi: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-dali/dalidrv/pkg/adapter"
	"github.com/go-dali/dalidrv/pkg/adapter/simhid"
	"github.com/go-dali/dalidrv/pkg/adapter/vendorhid"
	"github.com/go-dali/dalidrv/pkg/bus"
	"github.com/go-dali/dalidrv/pkg/config"
	daliaddr "github.com/go-dali/dalidrv/pkg/dalicore/addr"
	"github.com/go-dali/dalidrv/pkg/dalicore/command"
	"github.com/go-dali/dalidrv/pkg/gear"
	"github.com/go-dali/dalidrv/pkg/metrics"
	"github.com/go-dali/dalidrv/pkg/productinfo"
)

// cmdContext is the context struct required by kong.
type cmdContext struct{}

type scanCmd struct {
	Config   string `flag:"" type:"accessiblefile" optional:"" short:"c" help:"Path to YAML config file"`
	Simulate bool   `flag:"" optional:"" help:"Use the in-memory simulated bus instead of real hardware"`
}

type commissionCmd struct {
	Config   string `flag:"" type:"accessiblefile" optional:"" short:"c" help:"Path to YAML config file"`
	Simulate bool   `flag:"" optional:"" help:"Use the in-memory simulated bus instead of real hardware"`
}

type sendCmd struct {
	Config   string `flag:"" type:"accessiblefile" optional:"" short:"c" help:"Path to YAML config file"`
	Simulate bool   `flag:"" optional:"" help:"Use the in-memory simulated bus instead of real hardware"`
	Short    uint8  `flag:"" required:"" help:"Short address 0-63 to address"`
	Command  string `flag:"" required:"" help:"Command name, e.g. Off, RecallMaxLevel, QueryActualLevel"`
}

var cli struct {
	Scan       scanCmd       `cmd:"" help:"Scan the bus and print discovered gear"`
	Commission commissionCmd `cmd:"" help:"Run DALI commissioning, assigning short addresses to new gear"`
	Send       sendCmd       `cmd:"" help:"Send a single command to one gear by short address"`
}

var commandsByName = map[string]command.Code{
	"Off":                 command.Off,
	"Up":                  command.Up,
	"Down":                command.Down,
	"RecallMaxLevel":      command.RecallMaxLevel,
	"RecallMinLevel":      command.RecallMinLevel,
	"GoToLastActiveLevel": command.GoToLastActiveLevel,
	"QueryActualLevel":    command.QueryActualLevel,
	"QueryDeviceType":     command.QueryDeviceType,
	"QueryStatus":         command.QueryStatus,
}

func openTransceiver(cfgPath string, simulate bool) (*bus.Transceiver, config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, cfg, err
		}
	}

	logger := log.New(os.Stderr)
	level, err := log.ParseLevel(cfg.LogLevel)
	if err == nil {
		logger.SetLevel(level)
	}

	if simulate {
		sim := simhid.New("sim-0001", []*simhid.Gear{
			{ShortAddress: 0xFF, SearchAddr: 0x010000, DeviceType: 6, Level: 128},
			{ShortAddress: 0xFF, SearchAddr: 0x800000, DeviceType: 6, Level: 0},
		})
		return bus.Open(sim, logger), cfg, nil
	}

	reg := adapter.NewRegistry()
	reg.Register(cfg.Adapter.VendorID, cfg.Adapter.ProductID, vendorhid.Discover, vendorhid.Open)

	delta, _, err := reg.Enumerate(nil)
	if err != nil {
		return nil, cfg, fmt.Errorf("discovering adapters: %w", err)
	}
	if len(delta.Added) == 0 {
		return nil, cfg, fmt.Errorf("no DALI USB bridge found (vendor 0x%04X product 0x%04X)", cfg.Adapter.VendorID, cfg.Adapter.ProductID)
	}
	dev, err := reg.Open(delta.Added[0])
	if err != nil {
		return nil, cfg, fmt.Errorf("opening adapter: %w", err)
	}
	return bus.Open(dev, logger), cfg, nil
}

// productInfoCache builds the optional product-info cache from config,
// returning nil when the lookup is disabled.
func productInfoCache(cfg config.Config) *productinfo.Cache {
	if !cfg.ProductInfo.Enabled {
		return nil
	}
	return productinfo.NewCache(&productinfo.HTTPFetcher{BaseURL: cfg.ProductInfo.BaseURL})
}

func (c *scanCmd) Run(_ *cmdContext) error {
	t, cfg, err := openTransceiver(c.Config, c.Simulate)
	if err != nil {
		return err
	}
	defer t.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	model := gear.NewModel(t, productInfoCache(cfg))
	if err := model.Scan(ctx); err != nil {
		return fmt.Errorf("scanning bus: %w", err)
	}

	for _, g := range model.PresentGear() {
		uid, _ := g.UniqueID()
		fmt.Printf("short=%d type=%d level=%d groups=0x%04X uid=%s\n", g.ShortAddress, g.Type, g.Level, g.Groups, uid)
	}

	collector := metrics.NewCollector(t.UniqueID(), model, nil)
	return metrics.WriteText(os.Stdout, collector)
}

func (c *commissionCmd) Run(_ *cmdContext) error {
	t, _, err := openTransceiver(c.Config, c.Simulate)
	if err != nil {
		return err
	}
	defer t.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := t.Commission(ctx)
	if err != nil {
		return fmt.Errorf("commissioning: %w", err)
	}
	for search, short := range result.Assigned {
		fmt.Printf("search=0x%06X -> short=%d\n", search, short)
	}
	return nil
}

func (c *sendCmd) Run(_ *cmdContext) error {
	t, _, err := openTransceiver(c.Config, c.Simulate)
	if err != nil {
		return err
	}
	defer t.Close()

	cmd, ok := commandsByName[c.Command]
	if !ok {
		return fmt.Errorf("unknown command %q", c.Command)
	}
	a, err := daliaddr.NewShort(c.Short)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := t.SendCmd(ctx, a, cmd, 1)
	if err != nil {
		return err
	}
	if res.Present {
		fmt.Println(strconv.Itoa(int(res.Value)))
	} else {
		fmt.Println("(no response)")
	}
	return nil
}

// Package permd parses permissioning daemon flags and boots the engine.
package permd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/netgovern/netgovern/internal/govern/journal"
	journalsqlite "github.com/netgovern/netgovern/internal/govern/journal/sqlite"
	"github.com/netgovern/netgovern/internal/govern/policy"
	entrypoint "github.com/netgovern/netgovern/internal/platform/cmd"
)

// Config holds permd command configuration.
type Config struct {
	AdminOrg         string   `env:"NETGOVERN_ADMIN_ORG" envDefault:"ADMINORG"`
	NetworkAdminRole string   `env:"NETGOVERN_NETWORK_ADMIN_ROLE" envDefault:"ADMIN"`
	OrgAdminRole     string   `env:"NETGOVERN_ORG_ADMIN_ROLE" envDefault:"ORGADMIN"`
	SubOrgBreadth    int      `env:"NETGOVERN_SUB_ORG_BREADTH" envDefault:"3"`
	SubOrgDepth      int      `env:"NETGOVERN_SUB_ORG_DEPTH" envDefault:"4"`
	JournalPath      string   `env:"NETGOVERN_JOURNAL_PATH" envDefault:"permd.db"`
	SeedNodes        []string `env:"NETGOVERN_SEED_NODES" envSeparator:","`
	SeedAccount      string   `env:"NETGOVERN_SEED_ACCOUNT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.AdminOrg, "admin-org", cfg.AdminOrg, "The administration organization id")
	fs.StringVar(&cfg.NetworkAdminRole, "network-admin-role", cfg.NetworkAdminRole, "The protected network admin role name")
	fs.StringVar(&cfg.OrgAdminRole, "org-admin-role", cfg.OrgAdminRole, "The protected org admin role name")
	fs.IntVar(&cfg.SubOrgBreadth, "sub-org-breadth", cfg.SubOrgBreadth, "Maximum direct children per organization")
	fs.IntVar(&cfg.SubOrgDepth, "sub-org-depth", cfg.SubOrgDepth, "Maximum organization tree depth")
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "The audit journal sqlite path")
	fs.StringVar(&cfg.SeedAccount, "seed-account", cfg.SeedAccount, "The bootstrap network admin account")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// seedNode is one "id|ip|port|raftport" bootstrap node entry.
type seedNode struct {
	id       string
	ip       string
	port     int
	raftPort int
}

func parseSeedNode(entry string) (seedNode, error) {
	parts := strings.Split(entry, "|")
	if len(parts) != 4 {
		return seedNode{}, fmt.Errorf("seed node %q: want id|ip|port|raftport", entry)
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil {
		return seedNode{}, fmt.Errorf("seed node %q: port: %w", entry, err)
	}
	raftPort, err := strconv.Atoi(parts[3])
	if err != nil {
		return seedNode{}, fmt.Errorf("seed node %q: raft port: %w", entry, err)
	}
	return seedNode{id: parts[0], ip: parts[1], port: port, raftPort: raftPort}, nil
}

// Run boots a permissioning engine from the config and blocks until the
// context is canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePermd, func(ctx context.Context) error {
		store, err := journalsqlite.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()

		engine, err := Boot(ctx, cfg, store)
		if err != nil {
			return err
		}
		log.Printf("permissioning engine booted: admin org %s, %d seed nodes, pending=%v",
			engine.AdminOrg(), len(cfg.SeedNodes), engine.PendingOperation().Type)

		<-ctx.Done()
		return nil
	})
}

// Boot creates an engine, runs the pre-boot sequence from the config, and
// completes boot.
func Boot(ctx context.Context, cfg Config, recorder journal.Recorder) (*policy.Engine, error) {
	opts := []policy.Option{}
	if recorder != nil {
		opts = append(opts, policy.WithRecorder(recorder))
	}
	engine := policy.New(opts...)

	if err := engine.SetPolicy(cfg.AdminOrg, cfg.NetworkAdminRole, cfg.OrgAdminRole); err != nil {
		return nil, err
	}
	if _, err := engine.InitializeRoot(ctx, cfg.SubOrgBreadth, cfg.SubOrgDepth); err != nil {
		return nil, err
	}
	for _, entry := range cfg.SeedNodes {
		n, err := parseSeedNode(entry)
		if err != nil {
			return nil, err
		}
		if _, err := engine.SeedAdminNode(ctx, n.id, n.ip, n.port, n.raftPort); err != nil {
			return nil, err
		}
	}
	if cfg.SeedAccount != "" {
		if _, err := engine.SeedAdminAccount(ctx, cfg.SeedAccount); err != nil {
			return nil, err
		}
	}
	if err := engine.CompleteBoot(); err != nil {
		return nil, err
	}
	return engine, nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
	"service-delivery/internal/memstore"
	"service-delivery/internal/ports/dispatchtx"
	"service-delivery/internal/repository"
)

type storageIn struct {
	dig.In

	Ctx    context.Context
	Cfg    *config.Config
	Logger logx.Logger
	Closer *Closer
}

type storageOut struct {
	dig.Out

	Runner dispatchtx.Runner
	Agents dispatchtx.AgentRepository
	Tasks  dispatchtx.TaskRepository
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	provideStorage := func(in storageIn) (storageOut, error) {
		switch in.Cfg.Storage {
		case config.StorageMemory:
			in.Logger.Warn("using in-memory storage, data is lost on restart")
			s := memstore.New()
			return storageOut{Runner: s, Agents: s, Tasks: s}, nil
		case config.StoragePostgres, "":
			pool, err := dbConnect(in.Ctx, in.Logger, in.Cfg.DB.DSN(), 10, time.Second)
			if err != nil {
				return storageOut{}, err
			}
			in.Closer.Add("postgres", func() error {
				pool.Close()
				return nil
			})
			return storageOut{
				Runner: repository.NewTxRunner(pool),
				Agents: repository.NewAgentRepo(pool),
				Tasks:  repository.NewTaskRepo(pool),
			}, nil
		default:
			return storageOut{}, fmt.Errorf("unknown storage %q", in.Cfg.Storage)
		}
	}
	return provideAll(container, provideStorage)
}

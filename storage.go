package main

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/dev-mohitbeniwal/fleet/api/config"
	"github.com/dev-mohitbeniwal/fleet/api/dao"
	"github.com/dev-mohitbeniwal/fleet/api/db"
	"github.com/dev-mohitbeniwal/fleet/api/service"
)

const (
	usersCollection    = "usuarios"
	projectsCollection = "proyectos"
	tasksCollection    = "tareas"
)

// openStorage opens the record collections and token registry for the
// configured driver. The returned func closes whatever was opened.
func openStorage(ctx context.Context, cfg *config.Configuration) (service.Stores, func() error, error) {
	var stores service.Stores
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case "", "file":
		tokens, err := dao.NewFileTokenRegistry(cfg.Storage.DataDir)
		if err != nil {
			return stores, noop, err
		}
		stores.Tokens = tokens
		for name, dst := range collectionTargets(&stores) {
			c, err := dao.NewFileCollection(cfg.Storage.DataDir, name)
			if err != nil {
				return stores, noop, err
			}
			*dst = c
		}
		return stores, noop, nil

	case "postgres":
		gdb, err := db.InitPostgres(cfg.Postgres.DSN)
		if err != nil {
			return stores, noop, err
		}
		closeFn := func() error { return db.ClosePostgres(gdb) }
		tokens, err := dao.NewPostgresTokenRegistry(gdb)
		if err != nil {
			return stores, closeFn, err
		}
		stores.Tokens = tokens
		for name, dst := range collectionTargets(&stores) {
			c, err := dao.NewPostgresCollection(gdb, name)
			if err != nil {
				return stores, closeFn, err
			}
			*dst = c
		}
		return stores, closeFn, nil

	case "neo4j":
		driver, err := db.InitNeo4j()
		if err != nil {
			return stores, noop, err
		}
		closeFn := func() error { return db.CloseNeo4j(driver) }
		// Bearer tokens stay in the file registry; the graph only holds records.
		tokens, err := dao.NewFileTokenRegistry(cfg.Storage.DataDir)
		if err != nil {
			return stores, closeFn, err
		}
		stores.Tokens = tokens
		for name, dst := range collectionTargets(&stores) {
			c, err := dao.NewNeo4jCollection(ctx, driver, name)
			if err != nil {
				return stores, closeFn, multierr.Append(err, closeFn())
			}
			*dst = c
		}
		return stores, closeFn, nil

	default:
		return stores, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func collectionTargets(stores *service.Stores) map[string]*dao.Collection {
	return map[string]*dao.Collection{
		usersCollection:    &stores.Users,
		projectsCollection: &stores.Projects,
		tasksCollection:    &stores.Tasks,
	}
}

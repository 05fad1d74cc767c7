// Package loader registers the HTTP features of the server.
//
// Each feature implements Feature and mounts its routes in Load. The Manager keeps
// them in registration order and LoadAll mounts every enabled one:
//
//	mgr := loader.NewManager()
//	mgr.Register(compare.NewFeature(svc, logg))
//	mgr.Register(integrity.NewFeature(store, cfg.Storage.Bucket, logg, db, schema))
//	if err := mgr.LoadAll(app); err != nil { ... }
package loader

// Package permsource provides configuration sources for the permissions
// service: static files (JSON or YAML), HTTP endpoints, Redis keys, MongoDB
// collections, and PostgreSQL tables all implementing permissions.Source.
//
// Every source produces the same document shape:
//
//	{
//	  "roles": {"editor": {"permissions": ["write:articles"], "inherits": ["viewer"]}},
//	  "users": {"42": {"permissions": ["read:restricted"], "denies": ["write:*"]}}
//	}
//
// Malformed documents surface as ErrInvalidDocument; the permissions
// service keeps its previous configuration when a reload fails. Retry
// policy for remote stores lives here, never in the decision engine.
//
// Source configs are plain structs with env tags and can be populated from
// the environment:
//
//	var cfg permsource.RedisConfig
//	if err := permsource.LoadEnvConfig(&cfg); err != nil {
//	    // handle error
//	}
//	client, err := permsource.ConnectRedis(ctx, cfg)
//	svc, err := permissions.NewFromSource(ctx, permsource.NewRedis(client, cfg.Key))
package permsource

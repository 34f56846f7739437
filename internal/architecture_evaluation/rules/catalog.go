package rules

import d "github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"

func allow(src, tgt d.ComponentType, lt d.LinkType, msg string) ConnectionRule {
	return ConnectionRule{SourceType: src, TargetType: tgt, LinkType: lt, Allowed: true, Severity: d.SeverityWarning, Message: msg}
}

func deny(src, tgt d.ComponentType, lt d.LinkType, sev d.Severity, msg string) ConnectionRule {
	return ConnectionRule{SourceType: src, TargetType: tgt, LinkType: lt, Allowed: false, Severity: sev, Message: msg}
}

// DefaultRules is the built-in connection catalog used when no rules file is
// configured. Anything not listed is denied by the engine.
func DefaultRules() []ConnectionRule {
	return []ConnectionRule{
		// edge traffic
		allow(d.ComponentLoadBalancer, d.ComponentAPIService, d.LinkRoute, "{source} routes traffic to {target}"),
		allow(d.ComponentLoadBalancer, d.ComponentLoadBalancer, d.LinkRoute, "{source} forwards to {target}"),
		deny(d.ComponentLoadBalancer, d.ComponentDatabase, d.LinkRoute, d.SeverityViolation,
			"Load balancer {source} must not expose database {target} directly"),
		deny(d.ComponentLoadBalancer, d.ComponentCache, d.LinkRoute, d.SeverityWarning,
			"Routing {source} straight to cache {target} skips the service layer"),
		{SourceType: d.ComponentLoadBalancer, TargetType: d.ComponentCache, TargetSubtype: d.SubtypeCDN,
			LinkType: d.LinkRoute, Allowed: true, Severity: d.SeverityWarning, Message: "{source} fronts CDN {target}"},
		deny(d.ComponentLoadBalancer, d.ComponentStorage, d.LinkRoute, d.SeverityWarning,
			"Routing {source} to storage {target} is only sensible for object stores"),
		{SourceType: d.ComponentLoadBalancer, TargetType: d.ComponentStorage, TargetSubtype: d.SubtypeObject,
			LinkType: d.LinkRoute, Allowed: true, Severity: d.SeverityWarning, Message: "{source} serves static assets from {target}"},

		// service layer
		allow(d.ComponentAPIService, d.ComponentAPIService, d.LinkSyncCall, "{source} calls {target}"),
		deny(d.ComponentAPIService, d.ComponentAPIService, d.LinkAsyncMessage, d.SeverityWarning,
			"Async messaging from {source} to {target} should go through a queue"),
		allow(d.ComponentAPIService, d.ComponentDatabase, d.LinkQuery, "{source} queries {target}"),
		deny(d.ComponentAPIService, d.ComponentDatabase, d.LinkSyncCall, d.SeverityWarning,
			"Use a QUERY link from {source} to database {target}"),
		allow(d.ComponentAPIService, d.ComponentCache, d.LinkCacheAside, "{source} uses {target} cache-aside"),
		allow(d.ComponentAPIService, d.ComponentCache, d.LinkQuery, "{source} reads {target}"),
		allow(d.ComponentAPIService, d.ComponentQueue, d.LinkAsyncMessage, "{source} publishes to {target}"),
		deny(d.ComponentAPIService, d.ComponentQueue, d.LinkSyncCall, d.SeverityWarning,
			"Publishing from {source} to queue {target} should be ASYNC_MESSAGE"),
		allow(d.ComponentAPIService, d.ComponentStorage, d.LinkFileTransfer, "{source} stores files in {target}"),
		allow(d.ComponentAPIService, d.ComponentLoadBalancer, d.LinkSyncCall, "{source} calls through {target}"),

		// queues
		allow(d.ComponentQueue, d.ComponentAPIService, d.LinkAsyncMessage, "{target} consumes from {source}"),
		allow(d.ComponentQueue, d.ComponentQueue, d.LinkStream, "{source} streams into {target}"),
		allow(d.ComponentQueue, d.ComponentDatabase, d.LinkStream, "{source} sinks into {target}"),
		allow(d.ComponentQueue, d.ComponentStorage, d.LinkStream, "{source} archives into {target}"),
		deny(d.ComponentQueue, d.ComponentCache, d.LinkSyncCall, d.SeverityViolation,
			"Queue {source} cannot call cache {target}"),

		// data layer
		allow(d.ComponentDatabase, d.ComponentDatabase, d.LinkReplication, "{source} replicates to {target}"),
		deny(d.ComponentDatabase, d.ComponentDatabase, d.LinkSyncCall, d.SeverityViolation,
			"Database {source} cannot call database {target}"),
		allow(d.ComponentDatabase, d.ComponentQueue, d.LinkStream, "{source} emits change events to {target}"),
		allow(d.ComponentDatabase, d.ComponentStorage, d.LinkFileTransfer, "{source} backs up to {target}"),
		deny(d.ComponentDatabase, d.ComponentAPIService, d.LinkSyncCall, d.SeverityViolation,
			"Database {source} must not call service {target}"),
		deny(d.ComponentDatabase, d.ComponentCache, d.LinkSyncCall, d.SeverityViolation,
			"Database {source} must not call cache {target} synchronously"),
		{SourceType: d.ComponentDatabase, SourceSubtype: d.SubtypeRelational, TargetType: d.ComponentCache,
			TargetSubtype: d.SubtypeRedis, LinkType: d.LinkSyncCall, Allowed: true, Severity: d.SeverityWarning,
			Message: "{source} invalidates Redis {target} on write"},
		allow(d.ComponentCache, d.ComponentCache, d.LinkReplication, "{source} replicates to {target}"),
		allow(d.ComponentCache, d.ComponentDatabase, d.LinkQuery, "{source} reads through to {target}"),
		deny(d.ComponentCache, d.ComponentAPIService, d.LinkSyncCall, d.SeverityViolation,
			"Cache {source} must not call service {target}"),
		allow(d.ComponentStorage, d.ComponentStorage, d.LinkReplication, "{source} replicates to {target}"),
		{SourceType: d.ComponentStorage, SourceSubtype: d.SubtypeObject, TargetType: d.ComponentQueue,
			LinkType: d.LinkAsyncMessage, Allowed: true, Severity: d.SeverityWarning, Message: "{source} emits object events to {target}"},
		deny(d.ComponentStorage, d.ComponentAPIService, d.LinkSyncCall, d.SeverityViolation,
			"Storage {source} must not call service {target}"),
	}
}

package domain

import (
	"sort"
	"strings"
)

type ComponentType string

const (
	ComponentDatabase     ComponentType = "DATABASE"
	ComponentCache        ComponentType = "CACHE"
	ComponentAPIService   ComponentType = "API_SERVICE"
	ComponentQueue        ComponentType = "QUEUE"
	ComponentStorage      ComponentType = "STORAGE"
	ComponentLoadBalancer ComponentType = "LOAD_BALANCER"
)

// Subtype is the type-specific variant tag of a component (database engine kind,
// cache product, ...). The empty subtype means "any" in rule matching.
type Subtype string

const (
	SubtypeRelational Subtype = "RELATIONAL"
	SubtypeDocument   Subtype = "DOCUMENT"
	SubtypeKeyValue   Subtype = "KEY_VALUE"
	SubtypeGraph      Subtype = "GRAPH"
	SubtypeTimeSeries Subtype = "TIME_SERIES"

	SubtypeRedis     Subtype = "REDIS"
	SubtypeMemcached Subtype = "MEMCACHED"
	SubtypeInMemory  Subtype = "IN_MEMORY"
	SubtypeCDN       Subtype = "CDN"

	SubtypeREST      Subtype = "REST"
	SubtypeGRPC      Subtype = "GRPC"
	SubtypeGraphQL   Subtype = "GRAPHQL"
	SubtypeWebSocket Subtype = "WEBSOCKET"

	SubtypeKafka    Subtype = "KAFKA"
	SubtypeRabbitMQ Subtype = "RABBITMQ"
	SubtypeSQS      Subtype = "SQS"
	SubtypePubSub   Subtype = "PUBSUB"

	SubtypeObject Subtype = "OBJECT"
	SubtypeBlock  Subtype = "BLOCK"
	SubtypeFile   Subtype = "FILE"

	SubtypeL4         Subtype = "L4"
	SubtypeL7         Subtype = "L7"
	SubtypeDNS        Subtype = "DNS"
	SubtypeAPIGateway Subtype = "API_GATEWAY"

	SubtypeDefault Subtype = "DEFAULT"
)

var subtypesByType = map[ComponentType][]Subtype{
	ComponentDatabase:     {SubtypeRelational, SubtypeDocument, SubtypeKeyValue, SubtypeGraph, SubtypeTimeSeries},
	ComponentCache:        {SubtypeRedis, SubtypeMemcached, SubtypeInMemory, SubtypeCDN},
	ComponentAPIService:   {SubtypeREST, SubtypeGRPC, SubtypeGraphQL, SubtypeWebSocket},
	ComponentQueue:        {SubtypeKafka, SubtypeRabbitMQ, SubtypeSQS, SubtypePubSub},
	ComponentStorage:      {SubtypeObject, SubtypeBlock, SubtypeFile},
	ComponentLoadBalancer: {SubtypeL4, SubtypeL7, SubtypeDNS, SubtypeAPIGateway},
}

type LinkType string

const (
	LinkSyncCall     LinkType = "SYNC_CALL"
	LinkAsyncMessage LinkType = "ASYNC_MESSAGE"
	LinkQuery        LinkType = "QUERY"
	LinkCacheAside   LinkType = "CACHE_ASIDE"
	LinkReplication  LinkType = "REPLICATION"
	LinkStream       LinkType = "STREAM"
	LinkFileTransfer LinkType = "FILE_TRANSFER"
	LinkRoute        LinkType = "ROUTE"
)

// Parameter is a named axis of architectural quality.
type Parameter string

const (
	ParamLatency      Parameter = "LATENCY"
	ParamAvailability Parameter = "AVAILABILITY"
	ParamScalability  Parameter = "SCALABILITY"
	ParamCost         Parameter = "COST"
)

type Severity string

const (
	SeverityViolation Severity = "VIOLATION"
	SeverityWarning   Severity = "WARNING"
)

func ComponentTypes() []ComponentType {
	return []ComponentType{
		ComponentDatabase,
		ComponentCache,
		ComponentAPIService,
		ComponentQueue,
		ComponentStorage,
		ComponentLoadBalancer,
	}
}

func LinkTypes() []LinkType {
	return []LinkType{
		LinkSyncCall,
		LinkAsyncMessage,
		LinkQuery,
		LinkCacheAside,
		LinkReplication,
		LinkStream,
		LinkFileTransfer,
		LinkRoute,
	}
}

func Parameters() []Parameter {
	return []Parameter{ParamLatency, ParamAvailability, ParamScalability, ParamCost}
}

// SubtypesOf returns the subtype enumeration for t. Unknown types get the
// single DEFAULT subtype.
func SubtypesOf(t ComponentType) []Subtype {
	subs, ok := subtypesByType[t]
	if !ok {
		return []Subtype{SubtypeDefault}
	}
	out := make([]Subtype, len(subs))
	copy(out, subs)
	return out
}

func (t ComponentType) Valid() bool {
	_, ok := subtypesByType[t]
	return ok
}

// Accepts reports whether s is a legal subtype for t. The empty subtype is
// always accepted.
func (t ComponentType) Accepts(s Subtype) bool {
	if s == "" {
		return true
	}
	for _, v := range subtypesByType[t] {
		if v == s {
			return true
		}
	}
	return false
}

func (l LinkType) Valid() bool {
	for _, v := range LinkTypes() {
		if v == l {
			return true
		}
	}
	return false
}

func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(normalizeEnum(s))
	if !t.Valid() {
		return "", &ValueError{Kind: "component type", Value: s, Err: ErrInvalidComponentType}
	}
	return t, nil
}

func ParseLinkType(s string) (LinkType, error) {
	l := LinkType(normalizeEnum(s))
	if !l.Valid() {
		return "", &ValueError{Kind: "link type", Value: s, Err: ErrInvalidLinkType}
	}
	return l, nil
}

func ParseSubtype(t ComponentType, s string) (Subtype, error) {
	sub := Subtype(normalizeEnum(s))
	if !t.Accepts(sub) {
		return "", &ValueError{Kind: "subtype of " + string(t), Value: s, Err: ErrInvalidSubtype}
	}
	return sub, nil
}

// ParseParameter accepts any non-empty name; the parameter set is open so that
// weight files can introduce new axes.
func ParseParameter(s string) (Parameter, bool) {
	p := Parameter(normalizeEnum(s))
	return p, p != ""
}

// SortParameters orders parameters by name so float sums are reproducible.
func SortParameters(ps []Parameter) {
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
}

func normalizeEnum(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

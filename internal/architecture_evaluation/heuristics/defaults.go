package heuristics

import d "github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"

func profile(latency, availability, scalability, cost float64) d.HeuristicProfile {
	return d.HeuristicProfile{
		d.ParamLatency:      latency,
		d.ParamAvailability: availability,
		d.ParamScalability:  scalability,
		d.ParamCost:         cost,
	}
}

var typeDefaults = map[d.ComponentType]d.HeuristicProfile{
	d.ComponentDatabase:     profile(6, 7, 5, 5),
	d.ComponentCache:        profile(9, 6, 7, 7),
	d.ComponentAPIService:   profile(7, 7, 7, 6),
	d.ComponentQueue:        profile(6, 8, 8, 7),
	d.ComponentStorage:      profile(4, 8, 9, 8),
	d.ComponentLoadBalancer: profile(8, 9, 9, 6),
}

// Subtype overrides only list the parameters that differ from the type default.
var subtypeDefaults = map[d.Subtype]d.HeuristicProfile{
	d.SubtypeRelational: {d.ParamScalability: 4, d.ParamAvailability: 7},
	d.SubtypeDocument:   {d.ParamScalability: 7, d.ParamLatency: 7},
	d.SubtypeKeyValue:   {d.ParamLatency: 8, d.ParamScalability: 8},
	d.SubtypeGraph:      {d.ParamLatency: 5, d.ParamScalability: 4, d.ParamCost: 4},
	d.SubtypeTimeSeries: {d.ParamScalability: 7},

	d.SubtypeRedis:     {d.ParamLatency: 9, d.ParamAvailability: 7},
	d.SubtypeMemcached: {d.ParamLatency: 9, d.ParamAvailability: 5},
	d.SubtypeInMemory:  {d.ParamLatency: 10, d.ParamAvailability: 3, d.ParamScalability: 3, d.ParamCost: 9},
	d.SubtypeCDN:       {d.ParamLatency: 8, d.ParamAvailability: 9, d.ParamScalability: 10, d.ParamCost: 6},

	d.SubtypeGRPC:      {d.ParamLatency: 8},
	d.SubtypeGraphQL:   {d.ParamLatency: 6, d.ParamCost: 5},
	d.SubtypeWebSocket: {d.ParamLatency: 9, d.ParamScalability: 5},

	d.SubtypeKafka:    {d.ParamScalability: 10, d.ParamAvailability: 9, d.ParamCost: 5},
	d.SubtypeRabbitMQ: {d.ParamLatency: 7, d.ParamScalability: 6},
	d.SubtypeSQS:      {d.ParamLatency: 5, d.ParamAvailability: 9, d.ParamScalability: 9},
	d.SubtypePubSub:   {d.ParamAvailability: 9, d.ParamScalability: 9},

	d.SubtypeBlock: {d.ParamLatency: 7, d.ParamScalability: 5, d.ParamCost: 5},
	d.SubtypeFile:  {d.ParamLatency: 5, d.ParamScalability: 5, d.ParamCost: 6},

	d.SubtypeL4:         {d.ParamLatency: 9},
	d.SubtypeDNS:        {d.ParamLatency: 6, d.ParamAvailability: 10, d.ParamCost: 9},
	d.SubtypeAPIGateway: {d.ParamLatency: 7, d.ParamCost: 5},
}

var linkDefaults = map[d.LinkType]d.HeuristicProfile{
	d.LinkSyncCall:     {d.ParamLatency: 6, d.ParamAvailability: 6, d.ParamScalability: 6},
	d.LinkAsyncMessage: {d.ParamLatency: 5, d.ParamAvailability: 8, d.ParamScalability: 9},
	d.LinkQuery:        {d.ParamLatency: 7, d.ParamAvailability: 7},
	d.LinkCacheAside:   {d.ParamLatency: 9, d.ParamScalability: 8},
	d.LinkReplication:  {d.ParamAvailability: 9, d.ParamCost: 5},
	d.LinkStream:       {d.ParamLatency: 7, d.ParamScalability: 9, d.ParamCost: 6},
	d.LinkFileTransfer: {d.ParamLatency: 3, d.ParamCost: 7},
	d.LinkRoute:        {d.ParamLatency: 8, d.ParamAvailability: 8},
}

// DefaultProfile returns the seed profile for a new component. Unknown types
// get an empty profile.
func DefaultProfile(t d.ComponentType, s d.Subtype) d.HeuristicProfile {
	base, ok := typeDefaults[t]
	if !ok {
		return d.HeuristicProfile{}
	}
	out := base.Clone()
	if t.Accepts(s) {
		for p, v := range subtypeDefaults[s] {
			out[p] = v
		}
	}
	return out
}

// DefaultLinkProfile returns the seed profile for a new link of type t.
func DefaultLinkProfile(t d.LinkType) d.HeuristicProfile {
	return linkDefaults[t].Clone()
}

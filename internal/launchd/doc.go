// Package launchd compiles high-level scheduling intent (cron expressions,
// fixed times, suppression windows, filesystem and event triggers, keep-alive
// policy) into the nested-map form a launchd property list expects, and
// assembles complete service descriptors from it.
//
// All trigger containers validate at the point of mutation; the single
// deliberate exception is the socket attribute allow-list, which is checked at
// serialization time so that descriptors populated through SetRawSocket are
// caught too.
package launchd

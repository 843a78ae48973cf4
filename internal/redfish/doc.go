// Package redfish renders the Redfish resource tree served by Stripfish.
//
// Every function here is a pure render: static schema constants plus an
// optional kasa.Snapshot in, a typed document struct out. No rendering
// mutates anything, and nothing is cached; callers obtain a fresh device
// snapshot per request and hand it in.
//
// Invariants maintained by this package:
//   - A document's @odata.id always equals its canonical URI.
//   - Collections report Members@odata.count equal to len(Members), with
//     members listed in outlet-index (topology) order.
//   - Actionable resources embed an Actions block naming the action target
//     path and the allowed values of each parameter.
package redfish

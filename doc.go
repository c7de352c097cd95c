// Package session implements the client-side authenticated-session state
// machine for campusfeed applications backed by a hosted platform
// (Supabase-style auth, data, storage, and realtime endpoints).
//
// State model:
//   - A single Snapshot value holds the current identity (id, email) plus
//     the extended profile attributes loaded from the remote profile store.
//     The snapshot is mutated only through merge patches applied by the
//     Manager, and every merge is followed by a broadcast to subscribers.
//   - Identity and profile are eventually consistent: a login produces two
//     notifications, first with id/email set and profile fields empty, then
//     with the extended profile merged in. Subscribers must tolerate both.
//
// Observers:
//   - Subscribe registers a callback and immediately replays the current
//     snapshot, so late subscribers (the route guard in particular) can make
//     a synchronous decision before any auth operation has run. Subscriber
//     panics are isolated and logged so one faulty subscriber cannot break
//     the broadcast-to-all guarantee.
//
// Route guarding:
//   - Guard is a long-lived subscriber that answers, per navigation attempt,
//     whether a route that requires authentication may proceed or should
//     redirect to the login destination.
//
// Providers:
//   - The identity provider and profile store are abstract interfaces;
//     provider/supabase ships the implementation for the hosted platform.
package session

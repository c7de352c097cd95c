// Package supabase implements the session provider interfaces on top of a
// Supabase project: GoTrue for identity, PostgREST for the profile rows and
// feed tables, Storage for uploaded images, and Realtime for change
// notifications.
package supabase

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package persist implements the dual-write persistence policy.

# Writes

Every mutation produces a full snapshot of the bale (archers, scores,
current end, last-updated time). Persister.SaveBale writes it to the remote
store under bales/<profile>, replacing the previous snapshot. The remote
write is paced by a rate limiter and retried with exponential backoff; if
it still fails the identical snapshot goes to the local store under
bale/<profile>. The failure is logged and counted, never returned, so
scoring carries on offline.

	res := p.SaveBale(ctx, profile, bale) // ResultRemote, ResultLocal or ResultLost

Successful remote writes also refresh the local copy so a restart without
network still resumes the latest state.

# Async Writer

Handlers never wait on the network. Writer queues snapshots and a single
goroutine drains them. When several snapshots for the same key are waiting,
only the newest is written.

	w := persist.NewWriter(p)
	go w.Run(ctx)
	w.EnqueueBale(profile, bale)
	_ = w.Flush(shutdownCtx)

# Restore

Restore rebuilds what a restarted client should show. App state comes from
the local store first. Both bale copies are read and the newer one wins;
on a tie the local copy does, since fallback writes only reach it. A saved
app state naming the loaded bale restores its view; a bale on its own resumes
scoring; otherwise the client starts at setup. Legacy bale documents are
normalized as they are read.

# Conflicts

Last write wins. There is no merging of concurrent writers; two devices
scoring the same profile overwrite each other.
*/
package persist

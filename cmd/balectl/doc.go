// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Command balectl runs maintenance jobs against the bale scorer stores.

	balectl -t postgres -d postgres://... migrate --dry-run
	balectl -t redis --redis-url redis://... archive-profiles --delete
	balectl archive-bale --profile coach-kim --clear

migrate rewrites every current and archived bale into the canonical shape.
archive-profiles copies profiles to archive/profiles/<stamp>/.
archive-bale moves one profile's bale into the archive, as starting a new
bale would.

Store flags read the same environment variables as the server, and a .env
file in the working directory is loaded first.
*/
package main

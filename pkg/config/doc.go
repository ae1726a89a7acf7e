/*
Package config holds the snapfriend daemon configuration.

Configuration is resolved once at process start and passed by value to every
component that needs it; no component reads ambient global state. Sources,
in increasing precedence:

 1. built-in defaults (Default)
 2. an optional YAML file (Load)
 3. command-line flags, applied by the serve command

# File Format

	socket: /run/snapfriend/socket
	default_tag: friend:default
	tag_prefix: "friend:cache:"
	snapshot_tag: friend:snapshot
	name_prefix: friend-
	timeout: 2.5s
	mount_options: discard
	data_dir: /var/lib/snapfriend
	metrics_addr: 127.0.0.1:9321
	log_level: info
	log_json: true

# Volume Setup

The default volume is whichever logical volume carries default_tag. A
typical setup with a thin pool:

	lvcreate --type thin-pool --size 30G pool/friend-pool

	lvcreate --thinpool pool/friend-pool \
	    --virtualsize 3G \
	    --name friend-default \
	    --addtag friend:default

The daemon refuses to start when no volume carries default_tag.
*/
package config

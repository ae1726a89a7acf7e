/*
Package client is a small client for the snapfriend wire protocol.

It exists for the `snapfriend mount` command, which lets operators request a
snapshot mount from the shell without hand-writing protocol lines into ncat:

	snapfriend mount /some/place --find app,hash --find app --tag app

The client sends one mount record per Mount call and reads back the single
response line. Because the protocol has no status channel, Mount returns the
response text verbatim; Bye waits for the server's farewell so the process
does not exit before the mount has actually been attempted.
*/
package client

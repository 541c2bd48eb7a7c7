package main

import "github.com/tfaulkner/mhwarm/cmd"

// TODO: checkpointing for streams, so a later phase can resume exactly where
//       warm-up stopped instead of replaying every draw from the seed

func main() {
	cmd.Execute()
}

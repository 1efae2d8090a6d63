// Package pipeline drives a function from build to deploy.
//
// Each function moves through the stages
//
//	NotBuilt -> Built -> EntryGenerated | EntrySkipped -> ManifestFlattened -> LockfileCopied -> Deployed
//
// GenerateEntrypoint stops after the entry stage, PrepareDeploy after the
// lockfile copy and Deploy runs the whole chain. Functions are processed one
// at a time and every transition is logged and handed to the Reporter.
package pipeline

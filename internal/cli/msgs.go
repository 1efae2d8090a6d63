package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort               = "Bundle and deploy functions that share internal packages"
	MsgGenerateEntrypointShort = "Build a function and generate its entry file"
	MsgPrepareDeployShort      = "Build a function and assemble a self-contained bundle"
	MsgDeployShort             = "Prepare a function and deploy it"
	MsgGenerateShort           = "Generate entry files for already built functions"
	MsgConfigShort             = "Print the effective configuration"
	MsgVersionShort            = "Print version information"

	// Progress messages
	MsgBuilding          = "Building %q function..."
	MsgFunctionBuilt     = "Function %q built"
	MsgEntryGenerated    = "Function %q entry file generated (%s)"
	MsgEntrySkipped      = "Function %q has no packages. No need to generate entry file. Skipping..."
	MsgManifestFlattened = "package.json updated with all needed dependencies"
	MsgLockfileCopied    = "%s copied"
	MsgPreparingDeploy   = "Preparing function %q for deploy..."
	MsgDeployed          = "Function %q deployed"
	MsgFunctionWarning   = "Function %q: %s"
	MsgDryRunCommand     = "Would run: %s"
	MsgManifestDiff      = "Changes to %s:"
	MsgDryRunNotice      = "DRY RUN MODE - No changes were made"
	MsgGeneratedSummary  = "%d of %d functions got an entry file"
	MsgRootFallback      = "Monorepo root not found, using current directory %s"
	MsgVersionFormat     = "fnbundle version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrCommandRequired  = "please specify a command"
	MsgErrFunctionRequired = "please specify a function name"
	MsgErrTooManyArgs      = "expected a single function name"
	MsgErrUsage            = "invalid usage"
)

// Long descriptions
const (
	MsgRootLong = `fnbundle prepares and deploys serverless functions living in a JavaScript
monorepo whose functions share internal library packages.

For a function it runs the build, writes an entry file that maps every
bundled internal package name to its built location, flattens the
function's package.json so it lists the external dependencies of those
packages instead of the packages themselves, copies the monorepo lockfile
and finally runs the deploy command.`

	MsgGenerateLong = `Generate writes entry files without building. Pass a function name, or ALL
to process every function in name order. Functions that are not built are
skipped with a warning.`

	MsgDeployLong = `Deploy runs prepare-deploy and then the deploy command with the function
directory as source. Environment variables come from .env.yaml and
.env.<function>.yaml in the function directory; deploy flags come from the
gcfConfig block of the function's package.json.`
)

// Flag descriptions
const (
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagRoot    = "Monorepo root (default: $FNBUNDLE_ROOT, then the git repository root)"
	MsgFlagNoColor = "Disable colored output"
	MsgFlagSet     = "Override a configuration value (key=value, repeatable)"
	MsgFlagRestore = "Restore package.json and the lockfile after deploying"
)

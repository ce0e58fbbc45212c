package flags

const Verbose = `verbose`
const Quiet = `quiet`
const Session = `session`
const Format = `format`
const Heading = `heading`
const Index = `index`
const Label = `label`
const Mode = `mode`
const Ordinal = `ordinal`
const Output = `output`
const Force = `force`
const TreeShowCollapsed = `all`
const TreeWithKeys = `keys`

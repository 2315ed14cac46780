package loader

// YAML document schema for a network description.

type networkDoc struct {
	Baudrate uint32       `yaml:"baudrate"`
	Buses    []busDoc     `yaml:"buses"`
	Types    []typeDoc    `yaml:"types"`
	Messages []messageDoc `yaml:"messages"`
	Nodes    []nodeDoc    `yaml:"nodes"`
}

type busDoc struct {
	Name     string `yaml:"name"`
	Baudrate uint32 `yaml:"baudrate"`
}

type typeDoc struct {
	Enum   *enumDoc   `yaml:"enum"`
	Struct *structDoc `yaml:"struct"`
}

type enumDoc struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Entries     []enumEntryDoc `yaml:"entries"`
}

type enumEntryDoc struct {
	Name  string  `yaml:"name"`
	Value *uint64 `yaml:"value"`
}

type structDoc struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Attributes  []attributeDoc `yaml:"attributes"`
}

type attributeDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type messageDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// ID fixes a concrete identifier; nil requests allocation from
	// IDSpace ("std", "ext" or "any").
	ID       *uint32 `yaml:"id"`
	Extended bool    `yaml:"extended"`
	IDSpace  string  `yaml:"id_space"`

	Bus      string `yaml:"bus"`
	Interval string `yaml:"interval"` // Go duration string, e.g. "100ms"

	// Fields declares a typed payload, Signals a raw one. Mutually
	// exclusive; both absent means an empty payload.
	Fields  []fieldDoc     `yaml:"fields"`
	Signals []rawSignalDoc `yaml:"signals"`
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type rawSignalDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // primitive descriptor only
}

type nodeDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Buses []string `yaml:"buses"`
	Tx    []string `yaml:"tx"`
	Rx    []string `yaml:"rx"`

	ObjectEntries  []objectEntryDoc `yaml:"object_entries"`
	Commands       []commandDoc     `yaml:"commands"`
	ExternCommands []string         `yaml:"extern_commands"`
	TxStreams      []txStreamDoc    `yaml:"tx_streams"`
	RxStreams      []rxStreamDoc    `yaml:"rx_streams"`
}

type objectEntryDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Access      string `yaml:"access"` // "read", "write", "read_write"
	Unit        string `yaml:"unit"`
}

type commandDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Request     string `yaml:"request"`
	Response    string `yaml:"response"`
}

type txStreamDoc struct {
	Name    string   `yaml:"name"`
	Message string   `yaml:"message"`
	Entries []string `yaml:"entries"`
}

type rxStreamDoc struct {
	Node   string         `yaml:"node"`
	Stream string         `yaml:"stream"`
	Map    map[int]string `yaml:"map"` // publisher position -> local entry
}

// Package factory is the registry behind every pluggable module of the
// planner: metrics sinks, history stores and publishers are selected by a
// type string in the configuration and built from their raw settings.
//
//	reg := factory.NewRegistry[history.Store]()
//	reg.Register("jsonl", func(conf map[string]any) (history.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return history.NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "solves.jsonl"}})
package factory

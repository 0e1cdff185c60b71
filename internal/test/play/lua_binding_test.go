//go:build scenario

package play

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const (
	scenarioTypeName   = "scenario"
	moveActionTypeName = "move_action"
)

type Scenario struct {
	Name  string
	Steps []Step
}

type Step struct {
	Kind string
	Args map[string]any
}

type moveAction struct {
	scenario  *Scenario
	stepIndex int
}

func loadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	registerScenarioType(state)
	registerMoveActionType(state)
	registerScenarioConstructor(state)
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerMoveActionType(state *lua.State) {
	lua.NewMetaTable(state, moveActionTypeName)
	state.NewTable()
	lua.SetFunctions(state, moveActionMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "puzzle", Function: scenarioPuzzle},
	{Name: "move", Function: scenarioMove},
	{Name: "undo", Function: scenarioUndo},
	{Name: "reset", Function: scenarioReset},
	{Name: "check", Function: scenarioCheck},
}

func scenarioPuzzle(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	appendStep(scenario, "puzzle", data)
	return 0
}

func scenarioMove(state *lua.State) int {
	scenario := checkScenario(state)
	action := lua.CheckString(state, 2)
	opts := optionalTable(state, 3)
	data := map[string]any{"action": action}
	if len(opts) > 0 {
		data["args"] = opts
	}
	stepIndex := appendStep(scenario, "move", data)
	state.PushUserData(&moveAction{scenario: scenario, stepIndex: stepIndex})
	lua.SetMetaTableNamed(state, moveActionTypeName)
	return 1
}

func scenarioUndo(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 2)
	appendStep(scenario, "undo", data)
	return 0
}

func scenarioReset(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "reset", nil)
	return 0
}

func scenarioCheck(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	appendStep(scenario, "check", data)
	return 0
}

var moveActionMethods = []lua.RegistryFunction{
	{Name: "rejected", Function: moveActionRejected},
	{Name: "detail", Function: moveActionDetail},
	{Name: "fails", Function: moveActionFails},
}

func moveActionRejected(state *lua.State) int {
	step := checkMoveStep(state)
	step.Args["applied"] = false
	if detail := lua.OptString(state, 2, ""); detail != "" {
		step.Args["detail"] = detail
	}
	return 0
}

func moveActionDetail(state *lua.State) int {
	step := checkMoveStep(state)
	step.Args["detail"] = lua.CheckString(state, 2)
	return 0
}

func moveActionFails(state *lua.State) int {
	step := checkMoveStep(state)
	step.Args["error"] = lua.CheckString(state, 2)
	return 0
}

func checkMoveStep(state *lua.State) *Step {
	ud := lua.CheckUserData(state, 1, moveActionTypeName)
	action, ok := ud.(*moveAction)
	if !ok || action == nil {
		lua.Errorf(state, "invalid move action")
		return nil
	}
	if action.stepIndex < 0 || action.stepIndex >= len(action.scenario.Steps) {
		lua.Errorf(state, "move action is out of range")
		return nil
	}
	step := &action.scenario.Steps[action.stepIndex]
	if step.Args == nil {
		step.Args = map[string]any{}
	}
	return step
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	case lua.TypeUserData:
		return state.ToUserData(index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}

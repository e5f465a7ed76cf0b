package web

// indexHTML is a minimal manual-testing console served at "/".
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Futures Order Console</title>
<style>
body { font-family: monospace; margin: 2em; background: #111; color: #ddd; }
fieldset { border: 1px solid #444; margin-bottom: 1em; }
input, select { background: #222; color: #ddd; border: 1px solid #555; padding: 4px; margin: 2px; }
button { background: #2a6; color: #fff; border: none; padding: 6px 14px; cursor: pointer; }
pre { background: #000; padding: 1em; overflow-x: auto; }
</style>
</head>
<body>
<h2>Futures Order Console</h2>
<fieldset>
<legend>Place order</legend>
<input id="symbol" placeholder="symbol" value="BTCUSDT">
<select id="side"><option>BUY</option><option>SELL</option></select>
<select id="type">
<option>market</option><option>limit</option><option>stop_limit</option>
<option>stop_market</option><option>take_profit</option><option>take_profit_market</option>
</select>
<input id="quantity" placeholder="quantity">
<input id="price" placeholder="price">
<input id="stop_price" placeholder="stop price">
<label><input type="checkbox" id="strict"> strict</label>
<button onclick="placeOrder()">Submit</button>
</fieldset>
<fieldset>
<legend>Tools</legend>
<button onclick="get('/api/diagnostics?symbol=' + val('symbol'))">Diagnostics</button>
<button onclick="get('/api/filters?symbol=' + val('symbol'))">Filters</button>
<button onclick="get('/api/balance')">Balance</button>
<button onclick="get('/api/positions')">Positions</button>
</fieldset>
<pre id="out">ready</pre>
<script>
function val(id) { return document.getElementById(id).value; }
function show(data) { document.getElementById('out').textContent = JSON.stringify(data, null, 2); }
function get(url) { fetch(url).then(r => r.json()).then(show).catch(e => show({error: String(e)})); }
function placeOrder() {
  const body = {
    symbol: val('symbol'), side: val('side'), type: val('type'),
    quantity: val('quantity'), price: val('price') || undefined,
    stop_price: val('stop_price') || undefined,
    strict: document.getElementById('strict').checked
  };
  fetch('/api/order', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body)
  }).then(r => r.json()).then(show).catch(e => show({error: String(e)}));
}
</script>
</body>
</html>
`

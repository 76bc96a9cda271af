package server

// indexPage is the built-in map client. It pulls Leaflet from a CDN and
// points it at the local tile endpoint with the server's oversampled
// raster tiles.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>railmap</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([51.0, 10.0], 6);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
	maxZoom: 17,
	opacity: 0.4,
	attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var layers = {};
['el', 'el-lat', 'el-num', 'pax', 'pax-lat', 'pax-num', 'border'].forEach(function (name) {
	layers[name] = L.tileLayer('/' + name + '/{z}/{x}/{y}.png', {
		maxZoom: 17,
		tilePixelRatio: 2
	});
});
layers['border'].addTo(map);
layers['el'].addTo(map);
L.control.layers(null, layers).addTo(map);
</script>
</body>
</html>
`
